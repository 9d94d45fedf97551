package postprocess

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func det(x, y, w, h, prob float32) Detection {
	return Detection{
		Class:       1,
		Box:         BoxRect{X: x, Y: y, Width: w, Height: h},
		Probability: prob,
	}
}

func TestBoxRectIoU(t *testing.T) {

	tests := []struct {
		name string
		a, b BoxRect
		iou  float32
	}{
		{"identical", BoxRect{0, 0, 10, 10}, BoxRect{0, 0, 10, 10}, 1},
		{"disjoint", BoxRect{0, 0, 10, 10}, BoxRect{20, 20, 5, 5}, 0},
		{"touching", BoxRect{0, 0, 10, 10}, BoxRect{10, 0, 10, 10}, 0},
		{"half", BoxRect{0, 0, 10, 10}, BoxRect{5, 0, 10, 10}, 50.0 / 150.0},
		{"contained", BoxRect{0, 0, 10, 10}, BoxRect{0, 0, 5, 5}, 0.25},
		{"zero area", BoxRect{3, 3, 0, 0}, BoxRect{3, 3, 0, 0}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.iou, tc.a.IoU(tc.b), 1e-6)
			assert.InDelta(t, tc.iou, tc.b.IoU(tc.a), 1e-6)
		})
	}
}

func TestSuppressClassEmpty(t *testing.T) {
	assert.Empty(t, SuppressClass(nil, 0.5))
	assert.NotNil(t, SuppressClass(nil, 0.5))
}

func TestSuppressClassOverlap(t *testing.T) {

	cands := []Detection{
		det(1, 1, 10, 10, 0.7),
		det(0, 0, 10, 10, 0.9),
		det(50, 50, 10, 10, 0.8),
	}

	kept := SuppressClass(cands, 0.5)

	require.Len(t, kept, 2)
	assert.InDelta(t, 0.9, kept[0].Probability, 1e-6)
	assert.InDelta(t, 0.8, kept[1].Probability, 1e-6)

	// input order untouched
	assert.InDelta(t, 0.7, cands[0].Probability, 1e-6)
	assert.InDelta(t, 0.9, cands[1].Probability, 1e-6)
}

func TestSuppressClassThresholdInclusive(t *testing.T) {

	cands := []Detection{
		det(0, 0, 10, 10, 0.9),
		det(5, 0, 10, 10, 0.8),
	}

	iou := cands[0].Box.IoU(cands[1].Box)

	assert.Len(t, SuppressClass(cands, iou), 2)
	assert.Len(t, SuppressClass(cands, iou-1e-3), 1)
}

func TestSuppressClassStableTies(t *testing.T) {

	cands := []Detection{
		det(0, 0, 5, 5, 0.5),
		det(100, 0, 5, 5, 0.5),
		det(200, 0, 5, 5, 0.5),
	}
	cands[0].ID, cands[1].ID, cands[2].ID = 1, 2, 3

	kept := SuppressClass(cands, 0.5)

	require.Len(t, kept, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{kept[0].ID, kept[1].ID, kept[2].ID})
}

func TestSuppressClassProperties(t *testing.T) {

	rng := rand.New(rand.NewSource(42))
	cands := make([]Detection, 300)

	for i := range cands {
		cands[i] = det(rng.Float32()*200, rng.Float32()*200,
			10+rng.Float32()*40, 10+rng.Float32()*40, rng.Float32())
	}

	for _, thresh := range []float32{0.3, 0.5, 0.7} {
		kept := SuppressClass(cands, thresh)

		require.NotEmpty(t, kept)
		assert.LessOrEqual(t, len(kept), len(cands))

		for i := range kept {
			if i > 0 {
				assert.GreaterOrEqual(t, kept[i-1].Probability, kept[i].Probability)
			}

			for j := i + 1; j < len(kept); j++ {
				assert.LessOrEqual(t, kept[i].Box.IoU(kept[j].Box), thresh)
			}
		}

		// running again removes nothing more
		assert.Equal(t, kept, SuppressClass(kept, thresh))
	}
}
