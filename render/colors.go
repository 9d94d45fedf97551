package render

import "image/color"

var (
	// classColors is a list of colors used to paint detections, the object
	// at index i uses color i modulo the palette length
	classColors = []color.RGBA{
		{R: 244, G: 67, B: 54, A: 255},   // #F44336
		{R: 233, G: 30, B: 99, A: 255},   // #E91E63
		{R: 156, G: 39, B: 176, A: 255},  // #9C27B0
		{R: 103, G: 58, B: 183, A: 255},  // #673AB7
		{R: 63, G: 81, B: 181, A: 255},   // #3F51B5
		{R: 33, G: 150, B: 243, A: 255},  // #2196F3
		{R: 3, G: 169, B: 244, A: 255},   // #03A9F4
		{R: 0, G: 188, B: 212, A: 255},   // #00BCD4
		{R: 0, G: 150, B: 136, A: 255},   // #009688
		{R: 76, G: 175, B: 80, A: 255},   // #4CAF50
		{R: 139, G: 195, B: 74, A: 255},  // #8BC34A
		{R: 205, G: 220, B: 57, A: 255},  // #CDDC39
		{R: 255, G: 235, B: 59, A: 255},  // #FFEB3B
		{R: 255, G: 193, B: 7, A: 255},   // #FFC107
		{R: 255, G: 152, B: 0, A: 255},   // #FF9800
		{R: 255, G: 87, B: 34, A: 255},   // #FF5722
		{R: 121, G: 85, B: 72, A: 255},   // #795548
		{R: 158, G: 158, B: 158, A: 255}, // #9E9E9E
		{R: 96, G: 125, B: 139, A: 255},  // #607D8B
	}

	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// DetectionColor returns the palette color of the detection at index i of
// the result list
func DetectionColor(i int) color.RGBA {
	return classColors[i%len(classColors)]
}

// segMaskColor returns the color of a combined segment mask value, which is
// the 1 based detection index
func segMaskColor(v uint8) color.RGBA {
	return DetectionColor(int(v) - 1)
}

// blend mixes src into dst by alpha
func blend(dst, src uint8, alpha float32) uint8 {
	return uint8(float32(dst)*(1-alpha) + float32(src)*alpha)
}
