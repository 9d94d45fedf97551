package postprocess

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePriorsCOCO(t *testing.T) {

	p := YOLACTPriorParams()
	priors := GeneratePriors(p)

	require.Len(t, priors, 19248)
	assert.Equal(t, 19248, p.NumPriors())

	// first cell of the 69x69 level, aspect ratio 1 then 0.5
	assert.InDelta(t, 0.5/69, priors[0].CX, 1e-6)
	assert.InDelta(t, 0.5/69, priors[0].CY, 1e-6)
	assert.InDelta(t, 24.0/550, priors[0].W, 1e-6)
	assert.InDelta(t, 24*math.Sqrt(0.5)/550, priors[1].W, 1e-6)

	// last prior is the bottom right cell of the 5x5 level with ratio 2
	last := priors[len(priors)-1]
	assert.InDelta(t, 0.9, last.CX, 1e-6)
	assert.InDelta(t, 0.9, last.CY, 1e-6)
	assert.InDelta(t, 384*math.Sqrt2/550, last.W, 1e-6)

	for i, pr := range priors {
		if pr.H != pr.W {
			t.Fatalf("prior %d is not square: %+v", i, pr)
		}
	}
}

func TestGeneratePriorsDeterministic(t *testing.T) {
	p := YOLACTPriorParams()
	assert.Equal(t, GeneratePriors(p), GeneratePriors(p))
}

func TestGeneratePriorsOrder(t *testing.T) {

	priors := GeneratePriors(tinyParams().Priors)

	expect := []PriorBox{
		{CX: 0.25, CY: 0.25, W: 0.4, H: 0.4},
		{CX: 0.75, CY: 0.25, W: 0.4, H: 0.4},
		{CX: 0.25, CY: 0.75, W: 0.4, H: 0.4},
		{CX: 0.75, CY: 0.75, W: 0.4, H: 0.4},
	}

	require.Len(t, priors, len(expect))

	for i := range expect {
		assert.InDelta(t, expect[i].CX, priors[i].CX, 1e-6)
		assert.InDelta(t, expect[i].CY, priors[i].CY, 1e-6)
		assert.InDelta(t, expect[i].W, priors[i].W, 1e-6)
		assert.InDelta(t, expect[i].H, priors[i].H, 1e-6)
	}
}

func TestPriorParamsValidate(t *testing.T) {

	tests := []struct {
		name   string
		modify func(p *PriorParams)
		valid  bool
	}{
		{"default", func(p *PriorParams) {}, true},
		{"zero input", func(p *PriorParams) { p.InputSize = 0 }, false},
		{"no ratios", func(p *PriorParams) { p.AspectRatios = nil }, false},
		{"scale count", func(p *PriorParams) { p.Scales = p.Scales[:2] }, false},
		{"empty map", func(p *PriorParams) { p.FeatureMaps[0].Width = 0 }, false},
		{"negative ratio", func(p *PriorParams) { p.AspectRatios[1] = -1 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := YOLACTPriorParams()
			tc.modify(&p)

			err := p.Validate()

			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrInvalidParams))
			}
		})
	}
}
