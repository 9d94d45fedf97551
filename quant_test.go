package yolact

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantParams(t *testing.T) {

	q := QuantParams{ZeroPoint: -10, Scale: 0.5}

	tests := []struct {
		f float32
		v int8
	}{
		{0, -10},
		{5, 0},
		{-59, -128},
		{1000, 127},
		{-1000, -128},
	}

	for _, tc := range tests {
		assert.Equalf(t, tc.v, q.Quantize(tc.f), "quantize %f", tc.f)
	}

	assert.Equal(t, float32(5), q.Dequantize(0))
	assert.Equal(t, float32(0), q.Dequantize(-10))
}

func TestNewTensorFromInt8(t *testing.T) {

	q := QuantParams{ZeroPoint: 0, Scale: 0.25}

	tensor, err := NewTensorFromInt8(LocationName, []int8{4, -4, 0, 8}, q, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, -1, 0, 2}, tensor.Row(0))

	_, err = NewTensorFromInt8(LocationName, []int8{1, 2, 3}, q, 1, 4)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}
