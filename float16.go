package yolact

import "github.com/x448/float16"

var f16LookupTable [65536]float32

func init() {
	// precompute float16 lookup table for faster conversion to float32
	for i := range f16LookupTable {
		f16 := float16.Frombits(uint16(i))
		f16LookupTable[i] = f16.Float32()
	}
}

// Float16ToFloat32 converts the IEEE 754 half precision values in src into
// dst.  Only min(len(dst), len(src)) values are converted.
func Float16ToFloat32(dst []float32, src []uint16) int {

	n := len(src)

	if len(dst) < n {
		n = len(dst)
	}

	for i := 0; i < n; i++ {
		dst[i] = f16LookupTable[src[i]]
	}

	return n
}

// NewTensorFromFloat16 creates a float32 Tensor from half precision engine
// output, as produced by FP16 TensorRT engines
func NewTensorFromFloat16(name string, half []uint16, dims ...int) (*Tensor, error) {

	data := make([]float32, len(half))
	Float16ToFloat32(data, half)

	return NewTensor(name, data, dims...)
}
