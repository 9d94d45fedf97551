package yolact

// QuantParams are the affine quantization parameters of an int8 tensor
type QuantParams struct {
	ZeroPoint int32
	Scale     float32
}

// Dequantize converts a quantized int8 value back to a float32
func (q QuantParams) Dequantize(v int8) float32 {
	return (float32(v) - float32(q.ZeroPoint)) * q.Scale
}

// Quantize converts a float32 to int8, saturating at the int8 range
func (q QuantParams) Quantize(f float32) int8 {

	v := f/q.Scale + float32(q.ZeroPoint)

	switch {
	case v <= -128:
		return -128
	case v >= 127:
		return 127
	}

	return int8(v)
}

// NewTensorFromInt8 dequantizes the int8 output of a quantized Model into a
// float32 Tensor
func NewTensorFromInt8(name string, qnt []int8, q QuantParams, dims ...int) (*Tensor, error) {

	data := make([]float32, len(qnt))

	for i, v := range qnt {
		data[i] = q.Dequantize(v)
	}

	return NewTensor(name, data, dims...)
}
