package postprocess

import (
	"github.com/chewxy/math32"
	"github.com/swdee/go-yolact"
)

// DecodeParams are the settings used to decode the raw Model outputs into
// candidate detections
type DecodeParams struct {
	// ConfidenceThreshold is the exclusive lower bound a class score must
	// exceed to be kept
	ConfidenceThreshold float32
	// Variances are the box regression variances for cx, cy, w, h
	Variances [4]float32
	// ImageWidth and ImageHeight are the dimensions of the original image
	ImageWidth  int
	ImageHeight int
}

// DefaultVariances are the box regression variances the Model was trained with
var DefaultVariances = [4]float32{0.1, 0.1, 0.2, 0.2}

// Decode converts every prior's regression deltas and class scores into
// candidate detections in original image pixels.  The result is indexed by
// class label and each bucket holds its candidates in prior order.  Bucket 0
// is the background class and is always empty.
//
// The outputs must have been validated against the prior count, rows are
// accessed without further checks.
func Decode(priors []PriorBox, outputs *yolact.Outputs, p DecodeParams) [][]Detection {

	numClasses := outputs.Confidence.RowSize()
	buckets := make([][]Detection, numClasses)

	imgW := float32(p.ImageWidth)
	imgH := float32(p.ImageHeight)

	for i, prior := range priors {

		conf := outputs.Confidence.Row(i)

		// find class with highest score, background excluded
		label := 0
		var score float32

		for c := 1; c < numClasses; c++ {
			if conf[c] > score {
				label = c
				score = conf[c]
			}
		}

		if label == 0 || score <= p.ConfidenceThreshold {
			continue
		}

		loc := outputs.Location.Row(i)

		cx := prior.CX + loc[0]*p.Variances[0]*prior.W
		cy := prior.CY + loc[1]*p.Variances[1]*prior.H
		w := prior.W * math32.Exp(loc[2]*p.Variances[2])
		h := prior.H * math32.Exp(loc[3]*p.Variances[3])

		x1 := clamp((cx-w*0.5)*imgW, 0, imgW-1)
		y1 := clamp((cy-h*0.5)*imgH, 0, imgH-1)
		x2 := clamp((cx+w*0.5)*imgW, 0, imgW-1)
		y2 := clamp((cy+h*0.5)*imgH, 0, imgH-1)

		coeffs := outputs.MaskCoeffs.Row(i)
		maskCoeffs := make([]float32, len(coeffs))
		copy(maskCoeffs, coeffs)

		buckets[label] = append(buckets[label], Detection{
			Class: label,
			Box: BoxRect{
				X:      x1,
				Y:      y1,
				Width:  x2 - x1 + 1,
				Height: y2 - y1 + 1,
			},
			Probability: score,
			MaskCoeffs:  maskCoeffs,
		})
	}

	return buckets
}

// clamp restricts val to the range [min,max]
func clamp(val, min, max float32) float32 {
	return math32.Max(math32.Min(val, max), min)
}
