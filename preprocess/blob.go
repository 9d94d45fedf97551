package preprocess

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	// Mean is the per channel RGB mean the Model was trained with, in the
	// [0,1] range
	Mean = [3]float32{123.68 / 255, 116.78 / 255, 103.94 / 255}
	// Std is the per channel RGB standard deviation in the [0,1] range
	Std = [3]float32{58.40 / 255, 57.12 / 255, 57.38 / 255}
)

// ErrMatType is returned when a Mat is not an 8 bit three channel image
var ErrMatType = errors.New("mat must be CV_8UC3")

// normalise scales an 8 bit channel value of channel c
func normalise(c int, v uint8) float32 {
	return (float32(v)/255 - Mean[c]) / Std[c]
}

// BlobFromMat converts an RGB CV_8UC3 Mat into a normalised float32 blob in
// CHW order
func BlobFromMat(rgb gocv.Mat) ([]float32, error) {

	if rgb.Type() != gocv.MatTypeCV8UC3 {
		return nil, errors.Wrapf(ErrMatType, "got type %v", rgb.Type())
	}

	data, err := rgb.DataPtrUint8()

	if err != nil {
		return nil, errors.Wrap(err, "error accessing mat data")
	}

	w, h := rgb.Cols(), rgb.Rows()
	plane := w * h
	blob := make([]float32, 3*plane)

	for i := 0; i < plane; i++ {
		for c := 0; c < 3; c++ {
			blob[c*plane+i] = normalise(c, data[i*3+c])
		}
	}

	return blob, nil
}

// PrepareInput stretch resizes a BGR Mat to the Resizer's destination size,
// converts it to RGB and returns the normalised CHW blob
func PrepareInput(r *Resizer, bgr gocv.Mat) ([]float32, error) {

	resized := gocv.NewMat()
	defer resized.Close()

	r.StretchResize(bgr, &resized)

	rgb := gocv.NewMat()
	defer rgb.Close()

	gocv.CvtColor(resized, &rgb, gocv.ColorBGRToRGB)

	return BlobFromMat(rgb)
}

// BlobFromImage bilinearly scales img to width x height and returns the
// normalised CHW blob, for use where OpenCV is not available
func BlobFromImage(img image.Image, width, height int) []float32 {

	scaled := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	bounds := scaled.Bounds()

	plane := width * height
	blob := make([]float32, 3*plane)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := scaled.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := y*width + x

			blob[i] = normalise(0, uint8(r>>8))
			blob[plane+i] = normalise(1, uint8(g>>8))
			blob[2*plane+i] = normalise(2, uint8(b>>8))
		}
	}

	return blob
}
