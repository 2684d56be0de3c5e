package model

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestProduct_Variants(t *testing.T) {
	p := &Product{
		Colors:          pq.StringArray{"black", "white"},
		ImageIDs:        pq.StringArray{"img-black", "img-white"},
		ImageExtensions: map[string]string{"img-black": "png"},
	}

	assert.True(t, p.HasColor("white"))
	assert.False(t, p.HasColor("red"))
	assert.False(t, p.HasColor(""))
	assert.True(t, p.HasImage("img-black"))
	assert.False(t, p.HasImage("img-red"))

	assert.Equal(t, "png", p.ImageExtension("img-black"))
	assert.Equal(t, "webp", p.ImageExtension("img-white"))
}

func TestProduct_SnapshotCopiesSlices(t *testing.T) {
	p := &Product{ID: 7, Colors: pq.StringArray{"black"}}

	snap := p.Snapshot()
	p.Colors[0] = "white"

	assert.Equal(t, []string{"black"}, snap.Colors)
	assert.NotNil(t, snap.ImageIDs)
}
