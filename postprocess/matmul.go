package postprocess

import (
	"runtime"
	"sync"

	"github.com/swdee/go-yolact"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// parallelThreshold is the number of detections above which mask assembly
// is spread across workers
const parallelThreshold = 6

// combinePrototypes computes the linear combination of the K prototype maps
// weighted by the detection's mask coefficients, writing the Hp*Wp result
// into dst.  The prototypes are viewed as a K x (Hp*Wp) row major matrix so
// the combination is the product protos^T * coeffs.
func combinePrototypes(coeffs []float32, protos *yolact.Tensor, dst []float32) {

	k := protos.Dims[0]
	hw := protos.Len() / k

	a := blas32.General{
		Rows:   k,
		Cols:   hw,
		Stride: hw,
		Data:   protos.Data,
	}

	x := blas32.Vector{N: k, Inc: 1, Data: coeffs}
	y := blas32.Vector{N: hw, Inc: 1, Data: dst[:hw]}

	blas32.Gemv(blas.Trans, 1, a, x, 0, y)
}

// forEachParallel calls fn for every index in [0,n) splitting the indexes
// across NumCPU workers.  Worker w handles indexes w, w+numWorkers, ...
func forEachParallel(n int, fn func(i int)) {

	numWorkers := runtime.NumCPU()

	if numWorkers > n {
		numWorkers = n
	}

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for w := 0; w < numWorkers; w++ {
		go func(w int) {
			defer wg.Done()

			for i := w; i < n; i += numWorkers {
				fn(i)
			}
		}(w)
	}

	wg.Wait()
}
