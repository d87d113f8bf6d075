package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSeatMap() *CreateSeatMap {
	return &CreateSeatMap{
		Name: "Orchestra",
		Sections: []CreateSection{
			{
				RowIndex:     0,
				AisleIndexes: []int{1},
				Columns: []CreateSeatColumn{
					{ColumnIndex: 0, CellType: CellTypeSeat, Cells: []CreateCell{
						{CellType: CellTypeSeat, RowIndex: 0},
						{CellType: CellTypeSeat, RowIndex: 1},
					}},
					{ColumnIndex: 1, CellType: CellTypeAisle},
					{ColumnIndex: 2, CellType: CellTypeEmpty},
				},
			},
		},
	}
}

func TestCreateSeatMapValidate(t *testing.T) {
	require.NoError(t, validSeatMap().Validate())
}

func TestCreateSeatMapValidateFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateSeatMap)
	}{
		{"missing name", func(m *CreateSeatMap) { m.Name = "" }},
		{"no sections", func(m *CreateSeatMap) { m.Sections = nil }},
		{"section without columns", func(m *CreateSeatMap) { m.Sections[0].Columns = nil }},
		{"aisle index negative", func(m *CreateSeatMap) { m.Sections[0].AisleIndexes = []int{-1} }},
		{"aisle index past last column", func(m *CreateSeatMap) { m.Sections[0].AisleIndexes = []int{3} }},
		{"unknown column type", func(m *CreateSeatMap) { m.Sections[0].Columns[0].CellType = "SOFA" }},
		{"seat column without cells", func(m *CreateSeatMap) { m.Sections[0].Columns[0].Cells = nil }},
		{"aisle column with cells", func(m *CreateSeatMap) {
			m.Sections[0].Columns[1].Cells = []CreateCell{{CellType: CellTypeSeat, RowIndex: 0}}
		}},
		{"cell with unknown type", func(m *CreateSeatMap) { m.Sections[0].Columns[0].Cells[0].CellType = "X" }},
		{"cell with negative row", func(m *CreateSeatMap) { m.Sections[0].Columns[0].Cells[1].RowIndex = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validSeatMap()
			tt.mutate(m)
			err := m.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSeatMap)
		})
	}
}

func TestCellTypeValid(t *testing.T) {
	assert.True(t, CellTypeSeat.Valid())
	assert.True(t, CellTypeEmpty.Valid())
	assert.True(t, CellTypeAisle.Valid())
	assert.False(t, CellType("RECLINER").Valid())
	assert.False(t, CellType("").Valid())
}

func TestSeatLockExpired(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l := SeatLock{ExpiresAt: now.Add(time.Second)}
	assert.False(t, l.Expired(now))
	assert.True(t, l.Expired(now.Add(time.Second)))
	assert.True(t, l.Expired(now.Add(2*time.Second)))
}
