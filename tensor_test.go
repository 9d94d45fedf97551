package yolact

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"
)

func TestNewTensorSize(t *testing.T) {

	tests := []struct {
		name    string
		data    int
		dims    []int
		wantErr bool
	}{
		{"exact", 12, []int{3, 4}, false},
		{"rank3", 24, []int{2, 3, 4}, false},
		{"short", 11, []int{3, 4}, true},
		{"long", 13, []int{3, 4}, true},
		{"zero dim", 0, []int{0, 4}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTensor("t", make([]float32, tc.data), tc.dims...)

			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrShapeMismatch))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTensorAccessors(t *testing.T) {

	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}

	ten, err := NewTensor("proto", data, 2, 3, 4)
	require.NoError(t, err)

	assert.Equal(t, 24, ten.Len())
	assert.Equal(t, 2, ten.Rows())
	assert.Equal(t, 12, ten.RowSize())
	assert.Equal(t, float32(0), ten.At(0, 0, 0))
	assert.Equal(t, float32(6), ten.At(0, 1, 2))
	assert.Equal(t, float32(23), ten.At(1, 2, 3))

	row := ten.Row(1)
	assert.Len(t, row, 12)
	assert.Equal(t, float32(12), row[0])

	// row shares backing buffer but can not be grown into the next row
	assert.Equal(t, 12, cap(ten.Row(0)))

	assert.Panics(t, func() { ten.Row(2) })
	assert.Panics(t, func() { ten.Row(-1) })
	assert.Panics(t, func() { ten.At(0, 3, 0) })
	assert.Panics(t, func() { ten.At(0, 0) })
}

func TestTensorCheckDims(t *testing.T) {

	ten, err := NewTensor("loc", make([]float32, 40), 10, 4)
	require.NoError(t, err)

	assert.NoError(t, ten.CheckDims(10, 4))
	assert.True(t, errors.Is(ten.CheckDims(4, 10), ErrShapeMismatch))
	assert.True(t, errors.Is(ten.CheckDims(10, 4, 1), ErrShapeMismatch))
	assert.Equal(t, "name=loc, dims=[10x4], n_elems=40", ten.String())
}

func TestFloat16Tensor(t *testing.T) {

	vals := []float32{0, 1, -2, 0.5, 0.099975586}
	half := make([]uint16, len(vals))

	for i, v := range vals {
		half[i] = float16.Fromfloat32(v).Bits()
	}

	ten, err := NewTensorFromFloat16("conf", half, 5)
	require.NoError(t, err)

	for i, v := range vals {
		assert.InDelta(t, v, ten.Data[i], 1e-3)
	}

	// conversion stops at the shorter slice
	dst := make([]float32, 2)
	assert.Equal(t, 2, Float16ToFloat32(dst, half))
}
