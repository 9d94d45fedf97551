package yolact

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Tensor is a typed, bounds checked view over a contiguous row major float32
// buffer as returned by an inference engine
type Tensor struct {
	// Name is the output name the tensor was bound to, used in error messages
	Name string
	// Dims are the dimensions of the tensor, outer most first.  A leading
	// batch dimension of 1 should be stripped before building the Tensor
	Dims []int
	// Data is the tensor data in row major order
	Data []float32
	// strides for each dimension, computed from Dims
	strides []int
}

// NewTensor wraps data in a Tensor of the given dimensions.  An error is
// returned if the number of elements in data does not match the product of
// dims.
func NewTensor(name string, data []float32, dims ...int) (*Tensor, error) {

	size := 1

	for _, d := range dims {
		if d <= 0 {
			return nil, errors.Wrapf(ErrShapeMismatch,
				"tensor %q has invalid dimension %v", name, dims)
		}
		size *= d
	}

	if len(data) != size {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"tensor %q has %d elements, dimensions %v require %d",
			name, len(data), dims, size)
	}

	return &Tensor{
		Name:    name,
		Dims:    append([]int(nil), dims...),
		Data:    data,
		strides: computeStrides(dims),
	}, nil
}

// computeStrides returns the row major stride of each dimension
func computeStrides(dims []int) []int {

	strides := make([]int, len(dims))
	stride := 1

	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i]
	}

	return strides
}

// layout returns the tensor strides.  Tensors built as struct literals have
// none stored, so they are computed from Dims.
func (t *Tensor) layout() []int {

	if len(t.strides) == len(t.Dims) {
		return t.strides
	}

	return computeStrides(t.Dims)
}

// Len returns the number of elements in the tensor
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Rows returns the size of the outer most dimension
func (t *Tensor) Rows() int {
	return t.Dims[0]
}

// RowSize returns the number of elements held in a single row, that is the
// product of all dimensions after the first
func (t *Tensor) RowSize() int {
	return t.layout()[0]
}

// Row returns the i'th row of the tensor as a sub slice sharing the same
// backing buffer.  It panics if i is out of range.
func (t *Tensor) Row(i int) []float32 {

	if i < 0 || i >= t.Dims[0] {
		panic(fmt.Sprintf("tensor %q row %d out of range [0,%d)", t.Name, i, t.Dims[0]))
	}

	rowSize := t.layout()[0]
	start := i * rowSize
	return t.Data[start : start+rowSize : start+rowSize]
}

// At returns the element at the given index.  It panics if the number of
// indices does not match the tensor rank or any index is out of range.
func (t *Tensor) At(idx ...int) float32 {
	return t.Data[t.offset(idx)]
}

// offset calculates the flat buffer offset of the given index
func (t *Tensor) offset(idx []int) int {

	if len(idx) != len(t.Dims) {
		panic(fmt.Sprintf("tensor %q has rank %d, got %d indices", t.Name, len(t.Dims), len(idx)))
	}

	strides := t.layout()
	off := 0

	for i, v := range idx {
		if v < 0 || v >= t.Dims[i] {
			panic(fmt.Sprintf("tensor %q index %v out of range for dimensions %v", t.Name, idx, t.Dims))
		}
		off += v * strides[i]
	}

	return off
}

// CheckDims returns ErrShapeMismatch if the tensor dimensions differ from
// those expected or the tensor holds a different number of elements than
// its dimensions describe
func (t *Tensor) CheckDims(expect ...int) error {

	if len(expect) != len(t.Dims) {
		return errors.Wrapf(ErrShapeMismatch, "tensor %q has dimensions %v, expected %v",
			t.Name, t.Dims, expect)
	}

	size := 1

	for i := range expect {
		if expect[i] != t.Dims[i] {
			return errors.Wrapf(ErrShapeMismatch, "tensor %q has dimensions %v, expected %v",
				t.Name, t.Dims, expect)
		}

		size *= t.Dims[i]
	}

	if len(t.Data) != size {
		return errors.Wrapf(ErrShapeMismatch, "tensor %q has %d elements, dimensions %v require %d",
			t.Name, len(t.Data), t.Dims, size)
	}

	return nil
}

// String returns a human readable description of the tensor
func (t *Tensor) String() string {

	dims := make([]string, len(t.Dims))

	for i, d := range t.Dims {
		dims[i] = fmt.Sprintf("%d", d)
	}

	return fmt.Sprintf("name=%s, dims=[%s], n_elems=%d", t.Name,
		strings.Join(dims, "x"), len(t.Data))
}
