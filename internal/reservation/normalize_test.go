package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomkit/kitchensync/internal/apierror"
)

func TestNormalizeItems_RejectsEmpty(t *testing.T) {
	out, err := NormalizeItems(nil)
	assert.Nil(t, out)
	require.NotNil(t, err)
	assert.Equal(t, apierror.Validation, err.Kind)
}

func TestNormalizeItems_RejectsZeroOrNegativeQty(t *testing.T) {
	_, err := NormalizeItems([]ItemInput{{MenuItemID: 1, Qty: 0}})
	require.NotNil(t, err)
	assert.Equal(t, apierror.Validation, err.Kind)

	_, err = NormalizeItems([]ItemInput{{MenuItemID: 1, Qty: -3}})
	require.NotNil(t, err)
}

func TestNormalizeItems_MergesDuplicatesBySummingQty(t *testing.T) {
	out, err := NormalizeItems([]ItemInput{
		{MenuItemID: 5, Qty: 2},
		{MenuItemID: 3, Qty: 1},
		{MenuItemID: 5, Qty: 4},
	})
	require.Nil(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(3), out[0].MenuItemID)
	assert.Equal(t, uint64(5), out[1].MenuItemID)
	assert.Equal(t, 6, out[1].Qty)
}

func TestNormalizeItems_LastNonNilNotesWins(t *testing.T) {
	first := "no onions"
	second := "extra pickles"
	out, err := NormalizeItems([]ItemInput{
		{MenuItemID: 1, Qty: 1, Notes: &first},
		{MenuItemID: 1, Qty: 1, Notes: nil},
		{MenuItemID: 1, Qty: 1, Notes: &second},
	})
	require.Nil(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Notes)
	assert.Equal(t, second, *out[0].Notes)
	assert.Equal(t, 3, out[0].Qty)
}

func TestNormalizeItems_SortsAscendingByMenuItemID(t *testing.T) {
	out, err := NormalizeItems([]ItemInput{
		{MenuItemID: 9, Qty: 1},
		{MenuItemID: 2, Qty: 1},
		{MenuItemID: 7, Qty: 1},
	})
	require.Nil(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []uint64{2, 7, 9}, []uint64{out[0].MenuItemID, out[1].MenuItemID, out[2].MenuItemID})
}
