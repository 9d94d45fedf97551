package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Font defines the parameters for rendering text on an image using GoCV
type Font struct {
	Face      gocv.HersheyFont
	Scale     float64
	Color     color.RGBA
	Thickness int
	LineType  gocv.LineType
	// Background is the fill color of the label box, when nil the
	// detection's color is used
	Background *color.RGBA
	// Padding to place around text
	LeftPad   int
	RightPad  int
	TopPad    int
	BottomPad int
}

// DefaultFont returns font settings for white text on a label box filled
// with the detection color
func DefaultFont() Font {
	return Font{
		Face:      gocv.FontHersheySimplex,
		Scale:     0.5,
		Color:     White,
		Thickness: 1,
		LineType:  gocv.LineAA,
		LeftPad:   4,
		RightPad:  4,
		TopPad:    4,
		BottomPad: 6,
	}
}

// ClassicFont returns font settings for unpadded black text on a white label
// box
func ClassicFont() Font {
	bg := White

	return Font{
		Face:       gocv.FontHersheySimplex,
		Scale:      0.5,
		Color:      Black,
		Thickness:  1,
		LineType:   gocv.Line8,
		Background: &bg,
	}
}

// textSize returns the size of the rendered text including its baseline
func (f Font) textSize(text string) (image.Point, int) {
	return gocv.GetTextSizeWithBaseline(text, f.Face, f.Scale, f.Thickness)
}

// background returns the label box fill color
func (f Font) background(clr color.RGBA) color.RGBA {
	if f.Background != nil {
		return *f.Background
	}

	return clr
}
