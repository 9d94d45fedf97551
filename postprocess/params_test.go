package postprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParams(t *testing.T, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	return file
}

func TestLoadParams(t *testing.T) {

	file := writeParams(t, `
confidence_threshold: 0.3
keep_top_k: 50
parallel_nms: true
`)

	p, err := LoadParams(file)
	require.NoError(t, err)

	want := YOLACTCOCOParams()
	want.ConfidenceThreshold = 0.3
	want.KeepTopK = 50
	want.ParallelNMS = true

	assert.Equal(t, want, p)
}

func TestLoadParamsModel(t *testing.T) {

	file := writeParams(t, `
shape:
  num_priors: 4
  num_classes: 4
  mask_channels: 2
  proto_height: 4
  proto_width: 4
priors:
  input_size: 100
  feature_maps:
    - {width: 2, height: 2}
  aspect_ratios: [1]
  scales: [40]
`)

	p, err := LoadParams(file)
	require.NoError(t, err)
	assert.Equal(t, tinyParams(), p)
}

func TestLoadParamsErrors(t *testing.T) {

	_, err := LoadParams(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadParams(writeParams(t, "keep_top_k: [1"))
	assert.Error(t, err)

	_, err = LoadParams(writeParams(t, "nms_threshold: 2"))
	assert.True(t, errors.Is(err, ErrInvalidParams))
}
