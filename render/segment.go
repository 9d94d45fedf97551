package render

import (
	"image"

	"github.com/pkg/errors"
	"github.com/swdee/go-yolact/postprocess"
	"gocv.io/x/gocv"
)

// ErrMaskSize is returned when a segment mask does not cover the image
var ErrMaskSize = errors.New("segment mask size does not match image")

// SegmentMask renders the combined segment mask as a transparent overlay on
// top of the whole BGR image.  Mask values are 1 based detection indexes.
func SegmentMask(img *gocv.Mat, segMask []uint8, alpha float32) error {

	// get dimensions
	width := img.Cols()
	height := img.Rows()

	if len(segMask) != width*height {
		return errors.Wrapf(ErrMaskSize, "mask %d, image %dx%d", len(segMask), width, height)
	}

	// it is too slow to manipulate pixel by pixel using GoCV due to slowness
	// over CGO.  So we copy the bytes from the source image and manipulate
	// the bytes directly before copying back to a Mat
	imgData := img.ToBytes()

	for idx, v := range segMask {

		if v == 0 {
			continue
		}

		clr := segMaskColor(v)
		pixelPos := idx * 3

		imgData[pixelPos+0] = blend(imgData[pixelPos+0], clr.B, alpha)
		imgData[pixelPos+1] = blend(imgData[pixelPos+1], clr.G, alpha)
		imgData[pixelPos+2] = blend(imgData[pixelPos+2], clr.R, alpha)
	}

	// copy back to the original mat
	tmpImg, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, imgData)

	if err != nil {
		return errors.Wrap(err, "error creating blended Mat")
	}

	defer tmpImg.Close()
	tmpImg.CopyTo(img)

	return nil
}

// findTopPoint finds the highest point (Y axis) of the given point vector
func findTopPoint(approx gocv.PointVector) image.Point {
	topPoint := approx.At(0)
	for i := 1; i < approx.Size(); i++ {
		pt := approx.At(i)
		if pt.Y < topPoint.Y {
			topPoint = pt
		}
	}
	return topPoint
}

// SegmentOutline renders the outline of every detection's segment mask with
// its label placed above the topmost contour point.  Contours smaller than
// minArea are treated as noise.
func SegmentOutline(img *gocv.Mat, segMask []uint8, dets []postprocess.Detection,
	minArea float64, classNames []string, font Font, lineThickness int) error {

	width := img.Cols()
	height := img.Rows()

	if len(segMask) != width*height {
		return errors.Wrapf(ErrMaskSize, "mask %d, image %dx%d", len(segMask), width, height)
	}

	maskMat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8U, segMask)

	if err != nil {
		return errors.Wrap(err, "error creating mask Mat")
	}

	defer maskMat.Close()

	objMask := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8U)
	defer objMask.Close()

	boxLabels := make([]boxLabel, 0, len(dets))
	pad := padding{font.LeftPad, font.RightPad, font.TopPad, font.BottomPad}

	for i, det := range dets {

		// isolate the object by its 1 based index
		objID := float64(i + 1)
		gocv.InRangeWithScalar(maskMat, gocv.Scalar{Val1: objID},
			gocv.Scalar{Val1: objID}, &objMask)

		contours := gocv.FindContours(objMask, gocv.RetrievalExternal, gocv.ChainApproxSimple)

		useClr := DetectionColor(i)
		boxRect := det.Box.Rect()
		top := image.Pt(boxRect.Min.X, boxRect.Min.Y)
		found := false

		for c := 0; c < contours.Size(); c++ {
			contour := contours.At(c)

			// filter out small contours picked up from aliasing/noise in binary mask
			if gocv.ContourArea(contour) < minArea {
				continue
			}

			approx := gocv.ApproxPolyDP(contour, 3, true)

			ptsVec := gocv.NewPointsVector()
			ptsVec.Append(approx)

			gocv.Polylines(img, ptsVec, true, useClr, lineThickness)

			if pt := findTopPoint(approx); !found || pt.Y < top.Y {
				top = pt
			}

			found = true

			approx.Close()
			ptsVec.Close()
		}

		contours.Close()

		text := LabelText(classNames, det)
		size, baseline := font.textSize(text)
		labelRect, textPos := placeLabel(width,
			image.Rect(boxRect.Min.X, top.Y, boxRect.Max.X, boxRect.Max.Y),
			size, baseline, pad)

		boxLabels = append(boxLabels, boxLabel{
			rect:    labelRect,
			clr:     font.background(useClr),
			text:    text,
			textPos: textPos,
		})
	}

	drawLabels(img, boxLabels, font)

	return nil
}

// PaintSegmentToFile paints the combined segment mask onto a black image and
// writes it to filename
func PaintSegmentToFile(filename string, height, width int,
	segMask []uint8, alpha float32) error {

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width,
		gocv.MatTypeCV8UC3)
	defer img.Close()

	if err := SegmentMask(&img, segMask, alpha); err != nil {
		return err
	}

	if !gocv.IMWrite(filename, img) {
		return errors.Errorf("failed to write segment mask to %s", filename)
	}

	return nil
}
