package yolact

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Output tensor names used in errors and tensor dumps
const (
	LocationName   = "loc"
	ConfidenceName = "conf"
	MaskCoeffName  = "mask"
	PrototypeName  = "proto"
)

// ModelShape defines the fixed architecture constants of a YOLACT Model
type ModelShape struct {
	// NumPriors is the total number of prior (anchor) boxes across all
	// feature levels
	NumPriors int `yaml:"num_priors"`
	// NumClasses is the number of classes including the background class
	// at index 0
	NumClasses int `yaml:"num_classes"`
	// MaskChannels is the number of mask prototype channels
	MaskChannels int `yaml:"mask_channels"`
	// ProtoHeight is the spatial height of each prototype map
	ProtoHeight int `yaml:"proto_height"`
	// ProtoWidth is the spatial width of each prototype map
	ProtoWidth int `yaml:"proto_width"`
}

// COCOShape returns the ModelShape of the reference YOLACT Model trained on
// COCO with a 550x550 input:
// - Priors: 19248
// - Classes: 81 (80 objects plus background)
// - Mask Channels: 32
// - Prototype size: 138x138
func COCOShape() ModelShape {
	return ModelShape{
		NumPriors:    19248,
		NumClasses:   81,
		MaskChannels: 32,
		ProtoHeight:  138,
		ProtoWidth:   138,
	}
}

// ProtoSize returns the number of elements in a single prototype map
func (s ModelShape) ProtoSize() int {
	return s.ProtoHeight * s.ProtoWidth
}

// Outputs holds the four output tensors of a YOLACT Model for a single image
type Outputs struct {
	// Location are the box regression deltas, N x 4
	Location *Tensor
	// Confidence are the per class scores, N x C
	Confidence *Tensor
	// MaskCoeffs are the per prior mask coefficients, N x K
	MaskCoeffs *Tensor
	// Prototypes are the mask prototype maps, K x Hp x Wp
	Prototypes *Tensor
}

// NewOutputs wraps the flat float32 buffers copied from an inference engine
// into Outputs shaped according to the ModelShape
func NewOutputs(shape ModelShape, loc, conf, mask, proto []float32) (*Outputs, error) {

	var err error
	o := &Outputs{}

	o.Location, err = NewTensor(LocationName, loc, shape.NumPriors, 4)

	if err != nil {
		return nil, err
	}

	o.Confidence, err = NewTensor(ConfidenceName, conf, shape.NumPriors, shape.NumClasses)

	if err != nil {
		return nil, err
	}

	o.MaskCoeffs, err = NewTensor(MaskCoeffName, mask, shape.NumPriors, shape.MaskChannels)

	if err != nil {
		return nil, err
	}

	o.Prototypes, err = NewTensor(PrototypeName, proto, shape.MaskChannels,
		shape.ProtoHeight, shape.ProtoWidth)

	if err != nil {
		return nil, err
	}

	return o, nil
}

// Validate checks that all four tensors are present and shaped as the
// ModelShape requires
func (o *Outputs) Validate(shape ModelShape) error {

	if o == nil || o.Location == nil || o.Confidence == nil ||
		o.MaskCoeffs == nil || o.Prototypes == nil {
		return ErrMissingTensor
	}

	if err := o.Location.CheckDims(shape.NumPriors, 4); err != nil {
		return err
	}

	if err := o.Confidence.CheckDims(shape.NumPriors, shape.NumClasses); err != nil {
		return err
	}

	if err := o.MaskCoeffs.CheckDims(shape.NumPriors, shape.MaskChannels); err != nil {
		return err
	}

	return o.Prototypes.CheckDims(shape.MaskChannels, shape.ProtoHeight, shape.ProtoWidth)
}

// Query writes the output tensor information in text/human readable format
func (o *Outputs) Query(w io.Writer) error {

	tensors := []*Tensor{o.Location, o.Confidence, o.MaskCoeffs, o.Prototypes}

	fmt.Fprintf(w, "Output Number: %d\n", len(tensors))

	for i, t := range tensors {
		if t == nil {
			return errors.Wrapf(ErrMissingTensor, "output %d", i)
		}

		fmt.Fprintf(w, "  index=%d, %s\n", i, t.String())
	}

	return nil
}
