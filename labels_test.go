package yolact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLabels(t *testing.T) {

	file := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(file, []byte("background\n person \ncar\n"), 0o644))

	labels, err := LoadLabels(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"background", "person", "car"}, labels)

	_, err = LoadLabels(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestCOCOLabels(t *testing.T) {
	labels := COCOLabels()
	assert.Len(t, labels, COCOShape().NumClasses)
	assert.Equal(t, "background", labels[0])
	assert.Equal(t, "person", labels[1])
	assert.Equal(t, "toothbrush", labels[80])
}
