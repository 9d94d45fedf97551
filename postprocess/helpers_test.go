package postprocess

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/swdee/go-yolact"
)

// tinyParams returns parameters for a Model with a single 2x2 feature map and
// one aspect ratio.  The four priors are centered at (0.25,0.25),
// (0.75,0.25), (0.25,0.75), (0.75,0.75) with a size of 0.4.
func tinyParams() YOLACTParams {
	p := YOLACTCOCOParams()
	p.Shape = yolact.ModelShape{
		NumPriors:    4,
		NumClasses:   4,
		MaskChannels: 2,
		ProtoHeight:  4,
		ProtoWidth:   4,
	}
	p.Priors = PriorParams{
		InputSize:    100,
		FeatureMaps:  []FeatureMap{{Width: 2, Height: 2}},
		AspectRatios: []float32{1},
		Scales:       []float32{40},
	}
	return p
}

// outputsBuilder assembles zero filled Model outputs for tests
type outputsBuilder struct {
	shape yolact.ModelShape
	loc   []float32
	conf  []float32
	mask  []float32
	proto []float32
}

func newOutputsBuilder(s yolact.ModelShape) *outputsBuilder {
	return &outputsBuilder{
		shape: s,
		loc:   make([]float32, s.NumPriors*4),
		conf:  make([]float32, s.NumPriors*s.NumClasses),
		mask:  make([]float32, s.NumPriors*s.MaskChannels),
		proto: make([]float32, s.MaskChannels*s.ProtoSize()),
	}
}

func (b *outputsBuilder) setScore(prior, class int, v float32) *outputsBuilder {
	b.conf[prior*b.shape.NumClasses+class] = v
	return b
}

func (b *outputsBuilder) setLoc(prior int, d ...float32) *outputsBuilder {
	copy(b.loc[prior*4:prior*4+4], d)
	return b
}

func (b *outputsBuilder) setCoeffs(prior int, c ...float32) *outputsBuilder {
	k := b.shape.MaskChannels
	copy(b.mask[prior*k:(prior+1)*k], c)
	return b
}

func (b *outputsBuilder) fillProto(channel int, v float32) *outputsBuilder {
	n := b.shape.ProtoSize()

	for i := channel * n; i < (channel+1)*n; i++ {
		b.proto[i] = v
	}

	return b
}

func (b *outputsBuilder) build(t *testing.T) *yolact.Outputs {
	t.Helper()

	o, err := yolact.NewOutputs(b.shape, b.loc, b.conf, b.mask, b.proto)
	require.NoError(t, err)

	return o
}
