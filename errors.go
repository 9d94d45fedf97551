package yolact

import "github.com/pkg/errors"

var (
	// ErrShapeMismatch is returned when a tensor's dimensions do not match
	// those the Model was configured with
	ErrShapeMismatch = errors.New("tensor shape mismatch")
	// ErrMissingTensor is returned when one of the required output tensors
	// has not been provided
	ErrMissingTensor = errors.New("missing output tensor")
)
