package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionIDs_DedupesPreservingFirstOccurrenceOrder(t *testing.T) {
	got := unionIDs([]uint64{3, 1, 2}, []uint64{2, 4, 1})
	assert.Equal(t, []uint64{3, 1, 2, 4}, got)
}

func TestUnionIDs_HandlesEmptySides(t *testing.T) {
	assert.Equal(t, []uint64{5, 6}, unionIDs(nil, []uint64{5, 6}))
	assert.Equal(t, []uint64{5, 6}, unionIDs([]uint64{5, 6}, nil))
	assert.Nil(t, unionIDs(nil, nil))
}
