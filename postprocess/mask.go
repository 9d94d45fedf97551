package postprocess

import (
	"image"

	"github.com/pkg/errors"
	"github.com/swdee/go-yolact"
	"gocv.io/x/gocv"
)

const (
	// bufCombine is the name of the pool holding prototype combination
	// accumulators
	bufCombine = "combine"
	// maskOn is the pixel value of a set mask pixel
	maskOn = 255
)

// MaskAssembler produces the binary segment mask of a detection from the
// prototype maps and the detection's mask coefficients
type MaskAssembler struct {
	shape     yolact.ModelShape
	threshold float32
	bufPool   *bufferPool
}

// NewMaskAssembler returns a MaskAssembler for prototypes of the given Model
// shape.  Mask pixels whose resized activation exceeds threshold are set.
func NewMaskAssembler(shape yolact.ModelShape, threshold float32) *MaskAssembler {

	m := &MaskAssembler{
		shape:     shape,
		threshold: threshold,
		bufPool:   newBufferPool(),
	}

	// can not fail on a new pool
	_ = m.bufPool.create(bufCombine, shape.ProtoSize())

	return m
}

// Assemble builds the mask of det at width x height and stores it in
// det.Mask.  Pixels outside the detection's box are always zero.
func (m *MaskAssembler) Assemble(det *Detection, protos *yolact.Tensor,
	width, height int) error {

	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidParams, "mask size %dx%d", width, height)
	}

	err := protos.CheckDims(m.shape.MaskChannels, m.shape.ProtoHeight, m.shape.ProtoWidth)

	if err != nil {
		return err
	}

	if len(det.MaskCoeffs) != m.shape.MaskChannels {
		return errors.Wrapf(yolact.ErrShapeMismatch, "detection has %d mask coefficients, expected %d",
			len(det.MaskCoeffs), m.shape.MaskChannels)
	}

	resized, err := m.resizedActivation(det.MaskCoeffs, protos, width, height)

	if err != nil {
		return err
	}

	det.Mask = m.binarize(resized, det.Box, width, height)
	return nil
}

// AssembleAll builds the masks of all detections, assembly is spread across
// workers once there are more than six detections.  The first error
// encountered in detection order is returned.
func (m *MaskAssembler) AssembleAll(dets []Detection, protos *yolact.Tensor,
	width, height int) error {

	errs := make([]error, len(dets))

	assemble := func(i int) {
		errs[i] = m.Assemble(&dets[i], protos, width, height)
	}

	if len(dets) > parallelThreshold {
		forEachParallel(len(dets), assemble)
	} else {
		for i := range dets {
			assemble(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// resizedActivation combines the prototypes and bilinearly resizes the
// Hp x Wp activation map to width x height
func (m *MaskAssembler) resizedActivation(coeffs []float32, protos *yolact.Tensor,
	width, height int) ([]float32, error) {

	acc := m.bufPool.get(bufCombine, m.shape.ProtoSize())
	defer m.bufPool.put(bufCombine, acc)

	combinePrototypes(coeffs, protos, acc)

	src := gocv.NewMatWithSize(m.shape.ProtoHeight, m.shape.ProtoWidth, gocv.MatTypeCV32F)
	defer src.Close()

	srcData, err := src.DataPtrFloat32()

	if err != nil {
		return nil, errors.Wrap(err, "error accessing prototype mat")
	}

	copy(srcData, acc)

	dst := gocv.NewMat()
	defer dst.Close()

	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, gocv.InterpolationLinear)

	dstData, err := dst.DataPtrFloat32()

	if err != nil {
		return nil, errors.Wrap(err, "error accessing resized mat")
	}

	// copy out of the Mat before it is closed
	out := make([]float32, len(dstData))
	copy(out, dstData)

	return out, nil
}

// binarize thresholds the resized activation inside the detection box.  Box
// edges are inclusive so a pixel at y == box.Y+box.Height is still inside.
func (m *MaskAssembler) binarize(activation []float32, box BoxRect,
	width, height int) []uint8 {

	mask := make([]uint8, width*height)

	for y := 0; y < height; y++ {

		fy := float32(y)

		if fy < box.Y || fy > box.Y+box.Height {
			continue
		}

		row := activation[y*width : (y+1)*width]
		out := mask[y*width : (y+1)*width]

		for x := 0; x < width; x++ {

			fx := float32(x)

			if fx < box.X || fx > box.X+box.Width {
				continue
			}

			if row[x] > m.threshold {
				out[x] = maskOn
			}
		}
	}

	return mask
}
