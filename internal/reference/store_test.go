package reference

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitumame/mamegen/internal/ir"
)

func sampleTables() map[string]*ir.ReferenceTable {
	return map[string]*ir.ReferenceTable{
		"countries": {
			Name: "countries",
			Rows: []ir.ReferenceRow{
				{Label: "JP", Value: int64(1)},
				{Label: "US", Value: int64(2)},
				{Label: "JP", Value: int64(3)}, // duplicate label allowed
			},
		},
	}
}

func TestStoreTableLookup(t *testing.T) {
	store := NewStore(sampleTables())
	tbl := store.Table("countries")
	require.NotNil(t, tbl)
	assert.Equal(t, 3, len(tbl.Rows))
	assert.Nil(t, store.Table("missing"))
}

func TestTableRowByLabelReturnsFirstMatch(t *testing.T) {
	store := NewStore(sampleTables())
	tbl := store.Table("countries")
	idx := tbl.RowByLabel("JP")
	assert.Equal(t, 0, idx)
	assert.Equal(t, -1, tbl.RowByLabel("FR"))
}

func TestTableRowByValue(t *testing.T) {
	store := NewStore(sampleTables())
	tbl := store.Table("countries")
	idx := tbl.RowByValue("2")
	assert.Equal(t, 1, idx)
	assert.Equal(t, -1, tbl.RowByValue("99"))
}

func TestTablePickRowIsWithinBounds(t *testing.T) {
	store := NewStore(sampleTables())
	tbl := store.Table("countries")
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		idx := tbl.PickRow(rng)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, len(tbl.Rows))
	}
}
