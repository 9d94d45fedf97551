package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/swdee/go-yolact/postprocess"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay renders the detections onto an RGBA image without OpenCV.  Each
// detection's mask is blended with its color by alpha, then its box outline
// and a black on white label are drawn.  Detections with a probability below
// minProb are skipped.
func Overlay(dst *image.RGBA, dets []postprocess.Detection, classNames []string,
	alpha, minProb float32) {

	bounds := dst.Bounds()
	face := basicfont.Face7x13
	metrics := face.Metrics()

	boxLabels := make([]boxLabel, 0, len(dets))

	for i, det := range dets {

		if det.Probability < minProb {
			continue
		}

		clr := DetectionColor(i)

		blendMask(dst, det.Mask, clr, alpha)

		rect := det.Box.Rect().Add(bounds.Min)
		strokeRect(dst, rect, clr)

		text := LabelText(classNames, det)
		size := image.Pt(font.MeasureString(face, text).Ceil(), metrics.Ascent.Ceil())

		labelRect, textPos := placeLabel(bounds.Dx(), rect.Sub(bounds.Min), size,
			metrics.Descent.Ceil(), padding{})

		boxLabels = append(boxLabels, boxLabel{
			rect:    labelRect.Add(bounds.Min),
			clr:     White,
			text:    text,
			textPos: textPos.Add(bounds.Min),
		})
	}

	for _, l := range boxLabels {
		draw.Draw(dst, l.rect, image.NewUniform(l.clr), image.Point{}, draw.Src)

		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(Black),
			Face: face,
			Dot:  fixed.P(l.textPos.X, l.textPos.Y),
		}
		d.DrawString(l.text)
	}
}

// blendMask blends clr into every pixel set in a full image mask, masks not
// matching the image size are ignored
func blendMask(dst *image.RGBA, mask []uint8, clr color.RGBA, alpha float32) {

	bounds := dst.Bounds()
	width := bounds.Dx()

	if len(mask) != width*bounds.Dy() {
		return
	}

	for idx, v := range mask {
		if v == 0 {
			continue
		}

		off := dst.PixOffset(bounds.Min.X+idx%width, bounds.Min.Y+idx/width)
		pix := dst.Pix[off : off+3 : off+3]

		pix[0] = blend(pix[0], clr.R, alpha)
		pix[1] = blend(pix[1], clr.G, alpha)
		pix[2] = blend(pix[2], clr.B, alpha)
	}
}

// strokeRect draws a one pixel outline just inside r clipped to the image
func strokeRect(dst *image.RGBA, r image.Rectangle, clr color.RGBA) {

	if r.Empty() {
		return
	}

	src := image.NewUniform(clr)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}

	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), src, image.Point{}, draw.Src)
	}
}
