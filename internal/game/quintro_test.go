package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuintro_Validation(t *testing.T) {
	empty := run(Pos(0, 0), Horizontal, 5, "")
	_, err := NewQuintro(empty)
	assert.ErrorIs(t, err, ErrNoColoredCells)

	mixed := run(Pos(0, 0), Horizontal, 5, "red")
	mixed[3].Color = "blue"
	_, err = NewQuintro(mixed)
	assert.ErrorIs(t, err, ErrMixedColors)

	_, err = NewQuintro(run(Pos(0, 0), Horizontal, 4, "red"))
	assert.ErrorIs(t, err, ErrQuintroTooShort)
}

func TestQuintro_Counts(t *testing.T) {
	cells := run(Pos(0, 0), Vertical, 5, "red")
	cells[1].Color = ""
	cells[4].Color = ""

	q, err := NewQuintro(cells)
	require.NoError(t, err)
	assert.Equal(t, "red", q.Color())
	assert.Equal(t, 2, q.NumberOfEmptyCells())
	assert.False(t, q.IsComplete())
	assert.True(t, q.Contains(Pos(0, 4)))
	assert.False(t, q.Contains(Pos(1, 0)))
}

func TestQuintro_Equality(t *testing.T) {
	a, err := NewQuintro(run(Pos(1, 1), TopLeftDiagonal, 5, "red"))
	require.NoError(t, err)
	b, err := NewQuintro(run(Pos(1, 1), TopLeftDiagonal, 5, "red"))
	require.NoError(t, err)

	partial := run(Pos(1, 1), TopLeftDiagonal, 5, "red")
	partial[2].Color = ""
	c, err := NewQuintro(partial)
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.True(t, a.CellsAreInSamePositions(c))

	shifted, err := NewQuintro(run(Pos(2, 2), TopLeftDiagonal, 5, "red"))
	require.NoError(t, err)
	assert.False(t, a.CellsAreInSamePositions(shifted))
}

func TestQuintroSet_Dedup(t *testing.T) {
	a, _ := NewQuintro(run(Pos(0, 0), Horizontal, 5, "red"))
	b, _ := NewQuintro(run(Pos(0, 0), Horizontal, 5, "red"))
	c, _ := NewQuintro(run(Pos(0, 1), Horizontal, 5, "red"))

	s := NewQuintroSet(a, b)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Add(c))
	assert.False(t, s.Add(c))
	assert.Equal(t, []Quintro{a, c}, s.Values())

	other := NewQuintroSet(c, a)
	assert.True(t, s.Equals(other))

	var nilSet *QuintroSet
	assert.Equal(t, 0, nilSet.Len())
	assert.False(t, nilSet.Has(a))
}

func TestQuintro_WireFormat(t *testing.T) {
	cells := run(Pos(0, 2), Horizontal, 5, "blue")
	cells[0].Color = ""
	q, err := NewQuintro(cells)
	require.NoError(t, err)

	data, err := json.Marshal(NewQuintroSet(q))
	require.NoError(t, err)

	var decoded QuintroSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 1, decoded.Len())
	got := decoded.Values()[0]
	assert.True(t, got.Equals(q))
	assert.Equal(t, 1, got.NumberOfEmptyCells())
}
