package postprocess

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadParams reads a YAML parameters file.  Settings absent from the file
// keep their YOLACTCOCOParams values.
func LoadParams(file string) (YOLACTParams, error) {

	p := YOLACTCOCOParams()

	data, err := os.ReadFile(file)

	if err != nil {
		return p, errors.Wrap(err, "error reading params file")
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "error parsing params file %s", file)
	}

	return p, p.Validate()
}
