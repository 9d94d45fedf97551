// Package preprocess prepares images for the YOLACT Model input tensor
package preprocess

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Resizer defines the struct used for handling image resizing
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// destHeight is the height to scale to
	destHeight int
	// interp is the interpolation used when scaling
	interp gocv.InterpolationFlags
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// letterbox parameters used in scaling
	xPad  int
	yPad  int
	scale float32
	// resize dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a resizer used for scaling an image to the needed
// dimensions for input tensor size.  Bilinear interpolation is used unless
// changed with SetInterpolation.
func NewResizer(srcWidth, srcHeight, destWidth, destHeight int) *Resizer {
	r := &Resizer{
		srcWidth:   srcWidth,
		srcHeight:  srcHeight,
		destWidth:  destWidth,
		destHeight: destHeight,
		interp:     gocv.InterpolationLinear,
		tempMat:    gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc()

	return r
}

// SetInterpolation changes the interpolation used when scaling
func (r *Resizer) SetInterpolation(interp gocv.InterpolationFlags) {
	r.interp = interp
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc works out the letterbox geometry, the source is scaled by the
// smaller of the two axis ratios and centered on the destination
func (r *Resizer) preCalc() {

	scaleW := float32(r.destWidth) / float32(r.srcWidth)
	scaleH := float32(r.destHeight) / float32(r.srcHeight)

	// the limiting axis fills the destination exactly
	switch {
	case scaleW < scaleH:
		r.scale = scaleW
		r.resizeW, r.resizeH = r.destWidth, int(float32(r.srcHeight)*scaleW)
	default:
		r.scale = scaleH
		r.resizeW, r.resizeH = int(float32(r.srcWidth)*scaleH), r.destHeight
	}

	r.xPad = (r.destWidth - r.resizeW) / 2
	r.yPad = (r.destHeight - r.resizeH) / 2
}

// LetterBoxResize scales src into dest keeping its aspect ratio, the unused
// border is filled with color.
//
// YOLACT decodes boxes and masks in normalised coordinates scaled straight to
// the image size given, which assumes the input was stretched with
// StretchResize.  When letterboxing, pass the destination size to the post
// processor and map results back with ToSource.
func (r *Resizer) LetterBoxResize(src gocv.Mat, dest *gocv.Mat, color color.RGBA) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH), 0, 0, r.interp)

	top, left := r.yPad, r.xPad
	bottom := r.destHeight - r.resizeH - top
	right := r.destWidth - r.resizeW - left

	gocv.CopyMakeBorder(r.tempMat, dest, top, bottom, left, right,
		gocv.BorderConstant, color)
}

// ToSource maps a point on the letterboxed image back to the source image,
// the result is clamped to the source bounds
func (r *Resizer) ToSource(x, y float32) (float32, float32) {

	sx := (x - float32(r.xPad)) / r.scale
	sy := (y - float32(r.yPad)) / r.scale

	sx = max(0, min(sx, float32(r.srcWidth-1)))
	sy = max(0, min(sy, float32(r.srcHeight-1)))

	return sx, sy
}

// StretchResize scales the input image to the input tensor size ignoring
// image aspect.  Detection boxes decoded against the source image
// dimensions need no further correction.
func (r *Resizer) StretchResize(src gocv.Mat, dest *gocv.Mat) {
	gocv.Resize(src, dest, image.Pt(r.destWidth, r.destHeight), 0, 0, r.interp)
}

// ScaleFactor returns the scale factor used in letterbox resize
func (r *Resizer) ScaleFactor() float32 {
	return r.scale
}

// XPad returns the x padding used in letterbox resize
func (r *Resizer) XPad() int {
	return r.xPad
}

// YPad returns the y padding used in letterbox resize
func (r *Resizer) YPad() int {
	return r.yPad
}

// SrcWidth returns the width of the source image
func (r *Resizer) SrcWidth() int {
	return r.srcWidth
}

// SrcHeight returns the height of the source image
func (r *Resizer) SrcHeight() int {
	return r.srcHeight
}
