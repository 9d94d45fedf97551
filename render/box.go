package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/swdee/go-yolact/postprocess"
	"gocv.io/x/gocv"
)

// boxLabel defines where the detection object label should be rendered on
// source image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// padding around label text
type padding struct {
	left, right, top, bottom int
}

// LabelText returns the label of a detection as class name and percentage
// probability, eg: "person 87.5%"
func LabelText(classNames []string, det postprocess.Detection) string {

	name := strconv.Itoa(det.Class)

	if det.Class >= 0 && det.Class < len(classNames) {
		name = classNames[det.Class]
	}

	return fmt.Sprintf("%s %.1f%%", name, det.Probability*100)
}

// placeLabel positions a label of the given text size directly above box.
// The label is kept inside the image when the box touches the top or right
// edge.  Returns the label box and the text origin.
func placeLabel(imgWidth int, box image.Rectangle, size image.Point,
	baseline int, pad padding) (image.Rectangle, image.Point) {

	w := size.X + pad.left + pad.right
	h := size.Y + baseline + pad.top + pad.bottom

	x := box.Min.X
	y := box.Min.Y - h

	if y < 0 {
		y = 0
	}

	if x+w > imgWidth {
		x = imgWidth - w
	}

	if x < 0 {
		x = 0
	}

	return image.Rect(x, y, x+w, y+h), image.Pt(x+pad.left, y+pad.top+size.Y)
}

// DetectionBoxes renders the bounding boxes and labels of the objects
// detected.  Detections with a probability below minProb are skipped.
func DetectionBoxes(img *gocv.Mat, dets []postprocess.Detection,
	classNames []string, font Font, lineThickness int, minProb float32) {

	// keep a record of all box labels for later rendering
	boxLabels := make([]boxLabel, 0, len(dets))
	pad := padding{font.LeftPad, font.RightPad, font.TopPad, font.BottomPad}

	for i, det := range dets {

		if det.Probability < minProb {
			continue
		}

		useClr := DetectionColor(i)

		// draw rectangle around detected object
		rect := det.Box.Rect()
		gocv.Rectangle(img, rect, useClr, lineThickness)

		text := LabelText(classNames, det)
		size, baseline := font.textSize(text)
		labelRect, textPos := placeLabel(img.Cols(), rect, size, baseline, pad)

		boxLabels = append(boxLabels, boxLabel{
			rect:    labelRect,
			clr:     font.background(useClr),
			text:    text,
			textPos: textPos,
		})
	}

	drawLabels(img, boxLabels, font)
}

// drawLabels draws the precalculated box labels so they are the top most
// layer on the image and don't get overlapped by boxes or outlines
func drawLabels(img *gocv.Mat, boxLabels []boxLabel, font Font) {
	for _, box := range boxLabels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}
