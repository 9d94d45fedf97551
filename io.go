package yolact

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// dumpFile returns the path of the named tensor dump within dir
func dumpFile(dir, name string) string {
	return filepath.Join(dir, name+".bin")
}

// LoadOutputs reads a tensor dump directory containing loc.bin, conf.bin,
// mask.bin and proto.bin files of little endian float32 values, as written by
// SaveOutputs or by copying the engine's host buffers straight to disk
func LoadOutputs(dir string, shape ModelShape) (*Outputs, error) {

	bufs := make([][]float32, 4)

	for i, name := range []string{LocationName, ConfidenceName, MaskCoeffName, PrototypeName} {

		b, err := os.ReadFile(dumpFile(dir, name))

		if err != nil {
			return nil, errors.Wrapf(err, "error reading tensor %q", name)
		}

		if len(b)%4 != 0 {
			return nil, errors.Wrapf(ErrShapeMismatch,
				"tensor %q file size %d is not a multiple of 4", name, len(b))
		}

		data := make([]float32, len(b)/4)

		for j := range data {
			data[j] = math.Float32frombits(binary.LittleEndian.Uint32(b[j*4:]))
		}

		bufs[i] = data
	}

	return NewOutputs(shape, bufs[0], bufs[1], bufs[2], bufs[3])
}

// LoadOutputsF16 is the same as LoadOutputs but for dumps of half precision
// values from FP16 engines
func LoadOutputsF16(dir string, shape ModelShape) (*Outputs, error) {

	bufs := make([][]float32, 4)

	for i, name := range []string{LocationName, ConfidenceName, MaskCoeffName, PrototypeName} {

		b, err := os.ReadFile(dumpFile(dir, name))

		if err != nil {
			return nil, errors.Wrapf(err, "error reading tensor %q", name)
		}

		if len(b)%2 != 0 {
			return nil, errors.Wrapf(ErrShapeMismatch,
				"tensor %q file size %d is not a multiple of 2", name, len(b))
		}

		half := make([]uint16, len(b)/2)

		for j := range half {
			half[j] = binary.LittleEndian.Uint16(b[j*2:])
		}

		bufs[i] = make([]float32, len(half))
		Float16ToFloat32(bufs[i], half)
	}

	return NewOutputs(shape, bufs[0], bufs[1], bufs[2], bufs[3])
}

// SaveOutputs writes the Outputs to dir in the format read by LoadOutputs
func SaveOutputs(dir string, o *Outputs) error {

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "error creating dump directory")
	}

	for _, t := range []*Tensor{o.Location, o.Confidence, o.MaskCoeffs, o.Prototypes} {

		if t == nil {
			return ErrMissingTensor
		}

		b := make([]byte, len(t.Data)*4)

		for j, v := range t.Data {
			binary.LittleEndian.PutUint32(b[j*4:], math.Float32bits(v))
		}

		if err := os.WriteFile(dumpFile(dir, t.Name), b, 0o644); err != nil {
			return errors.Wrapf(err, "error writing tensor %q", t.Name)
		}
	}

	return nil
}
