package postprocess

import (
	"image"

	"github.com/chewxy/math32"
)

// DetectionResult is implemented by the results of the object detection
// stage
type DetectionResult interface {
	GetDetectResults() []Detection
}

// BoxRect is the bounding box of a detected object in original image pixels.
// Width and Height follow the inclusive pixel convention, so a box spanning
// x1..x2 has Width x2-x1+1.
type BoxRect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Area returns the area of the box
func (b BoxRect) Area() float32 {
	return b.Width * b.Height
}

// Intersection returns the overlapping region of two boxes, an empty box is
// returned if they do not overlap
func (b BoxRect) Intersection(o BoxRect) BoxRect {

	x1 := math32.Max(b.X, o.X)
	y1 := math32.Max(b.Y, o.Y)
	x2 := math32.Min(b.X+b.Width, o.X+o.Width)
	y2 := math32.Min(b.Y+b.Height, o.Y+o.Height)

	if x2 <= x1 || y2 <= y1 {
		return BoxRect{}
	}

	return BoxRect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// IoU returns the Intersection over Union of two boxes.  Boxes with no union
// area have an IoU of zero.
func (b BoxRect) IoU(o BoxRect) float32 {
	return iou(b, o, b.Area(), o.Area())
}

// iou calculates the IoU using precomputed box areas
func iou(a, b BoxRect, areaA, areaB float32) float32 {

	inter := a.Intersection(b).Area()
	union := areaA + areaB - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// Rect returns the box as an integer image.Rectangle for rendering
func (b BoxRect) Rect() image.Rectangle {
	return image.Rect(int(b.X), int(b.Y), int(b.X+b.Width), int(b.Y+b.Height))
}

// Detection defines the attributes of a single object detected
type Detection struct {
	// ID is a unique ID assigned to the detection result
	ID int64
	// Class is the line number in the labels file the Model was trained on,
	// zero being the background class which is never returned
	Class int
	// Box are the bounding box dimensions of the object location
	Box BoxRect
	// Probability is the confidence score of the object detected
	Probability float32
	// MaskCoeffs are the prototype mask coefficients of the detection's prior
	MaskCoeffs []float32
	// Mask is the binary segment mask of the object at original image size
	// with values 0 or 255.  It is nil until the mask has been assembled.
	Mask []uint8
}

// SegMask defines the segment mask data that is returned with detection results
type SegMask struct {
	// Mask holds for every image pixel the 1 based index of the detection
	// covering it, or 0 for background
	Mask []uint8
	// Width and Height of the mask
	Width  int
	Height int
}
