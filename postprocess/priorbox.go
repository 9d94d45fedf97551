package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrInvalidParams is returned when post processing parameters are out of
// range or inconsistent with each other
var ErrInvalidParams = errors.New("invalid post processing parameters")

// PriorBox is an anchor box in center-size notation, normalised to [0,1]
// relative to the Model input resolution
type PriorBox struct {
	CX float32
	CY float32
	W  float32
	H  float32
}

// FeatureMap is the grid size of a single convolution feature level
type FeatureMap struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PriorParams defines the static anchor configuration of the Model
type PriorParams struct {
	// InputSize is the square pixel size of the Model input
	InputSize int `yaml:"input_size"`
	// FeatureMaps are the convolution grid sizes, one per feature level
	FeatureMaps []FeatureMap `yaml:"feature_maps"`
	// AspectRatios are applied at every grid cell of every level
	AspectRatios []float32 `yaml:"aspect_ratios"`
	// Scales are the base anchor sizes in pixels, one per feature level
	Scales []float32 `yaml:"scales"`
}

// YOLACTPriorParams returns the anchor configuration of the reference 550x550
// YOLACT Model featuring:
// - Feature Maps: 69x69, 35x35, 18x18, 9x9, 5x5
// - Aspect Ratios: 1, 0.5, 2
// - Scales: 24, 48, 96, 192, 384
func YOLACTPriorParams() PriorParams {
	return PriorParams{
		InputSize: 550,
		FeatureMaps: []FeatureMap{
			{Width: 69, Height: 69},
			{Width: 35, Height: 35},
			{Width: 18, Height: 18},
			{Width: 9, Height: 9},
			{Width: 5, Height: 5},
		},
		AspectRatios: []float32{1, 0.5, 2},
		Scales:       []float32{24, 48, 96, 192, 384},
	}
}

// Validate checks the prior parameters are usable
func (p PriorParams) Validate() error {

	if p.InputSize <= 0 {
		return errors.Wrapf(ErrInvalidParams, "input size %d", p.InputSize)
	}

	if len(p.FeatureMaps) == 0 || len(p.AspectRatios) == 0 {
		return errors.Wrap(ErrInvalidParams, "no feature maps or aspect ratios")
	}

	if len(p.Scales) != len(p.FeatureMaps) {
		return errors.Wrapf(ErrInvalidParams, "%d scales for %d feature maps",
			len(p.Scales), len(p.FeatureMaps))
	}

	for _, fm := range p.FeatureMaps {
		if fm.Width <= 0 || fm.Height <= 0 {
			return errors.Wrapf(ErrInvalidParams, "feature map %dx%d", fm.Width, fm.Height)
		}
	}

	for _, ar := range p.AspectRatios {
		if ar <= 0 {
			return errors.Wrapf(ErrInvalidParams, "aspect ratio %f", ar)
		}
	}

	return nil
}

// NumPriors returns the number of prior boxes GeneratePriors will produce
func (p PriorParams) NumPriors() int {

	n := 0

	for _, fm := range p.FeatureMaps {
		n += fm.Width * fm.Height * len(p.AspectRatios)
	}

	return n
}

// GeneratePriors creates the prior box table.  The order is feature level,
// grid row, grid column then aspect ratio, which is the same order the Model
// emits its per prior output rows in.
func GeneratePriors(p PriorParams) []PriorBox {

	priors := make([]PriorBox, 0, p.NumPriors())
	inputSize := float32(p.InputSize)

	for l, fm := range p.FeatureMaps {

		scale := p.Scales[l]

		for i := 0; i < fm.Height; i++ {
			for j := 0; j < fm.Width; j++ {

				// +0.5 as priors are in center-size notation
				cx := (float32(j) + 0.5) / float32(fm.Width)
				cy := (float32(i) + 0.5) / float32(fm.Height)

				for _, ar := range p.AspectRatios {

					w := scale * math32.Sqrt(ar) / inputSize

					// the Model was trained with square anchors, so height
					// follows width regardless of the aspect ratio
					h := w

					priors = append(priors, PriorBox{CX: cx, CY: cy, W: w, H: h})
				}
			}
		}
	}

	return priors
}
