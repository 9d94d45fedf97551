package postprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPool(t *testing.T) {

	b := newBufferPool()
	require.NoError(t, b.create("acc", 16))
	assert.Error(t, b.create("acc", 16))

	buf := b.get("acc", 10)
	require.Len(t, buf, 10)

	for i := range buf {
		buf[i] = float32(i + 1)
	}

	b.put("acc", buf)

	again := b.get("acc", 16)
	require.Len(t, again, 16)

	for _, v := range again {
		assert.Zero(t, v)
	}

	// oversize buffers are allocated and not pooled
	big := b.get("acc", 32)
	assert.Len(t, big, 32)
	b.put("acc", big)

	assert.Panics(t, func() { b.get("missing", 1) })
}
