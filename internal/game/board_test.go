package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard_Validation(t *testing.T) {
	cases := []struct {
		name   string
		width  int
		height int
		cells  []Cell
		want   error
	}{
		{"zero width", 0, 5, nil, ErrInvalidDimensions},
		{"negative height", 5, -1, nil, ErrInvalidDimensions},
		{"cell outside", 5, 5, []Cell{red(5, 0)}, ErrCellOutOfBounds},
		{"cell without color", 5, 5, []Cell{{Position: Pos(1, 1)}}, ErrEmptyFilledCell},
		{"duplicate position", 5, 5, []Cell{red(1, 1), blue(1, 1)}, ErrDuplicateCell},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.width, tc.height, tc.cells...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBoard_FillCellsIsPure(t *testing.T) {
	b := MustBoard(6, 6, red(0, 0))

	nb, err := b.FillCells(blue(1, 1), red(2, 2))
	require.NoError(t, err)

	assert.Equal(t, 1, b.NumFilled())
	assert.False(t, b.IsFilled(Pos(1, 1)))
	assert.Equal(t, []Cell{red(0, 0), blue(1, 1), red(2, 2)}, nb.FilledCells())

	last, ok := nb.LastFilledCell()
	require.True(t, ok)
	assert.Equal(t, red(2, 2), last)

	_, err = nb.FillCells(red(1, 1))
	assert.ErrorIs(t, err, ErrDuplicateCell)
}

func TestBoard_GetCell(t *testing.T) {
	b := MustBoard(5, 7, blue(4, 6))

	c, err := b.GetCell(Pos(4, 6))
	require.NoError(t, err)
	assert.Equal(t, "blue", c.Color)

	c, err = b.GetCell(Pos(0, 0))
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	for _, p := range []Position{Pos(5, 0), Pos(0, 7), Pos(-1, 3)} {
		_, err := b.GetCell(p)
		assert.ErrorIs(t, err, ErrCellOutOfBounds, "position %s", p)
	}
}

func TestBoard_Maps(t *testing.T) {
	b := MustBoard(5, 5, red(0, 0), blue(1, 0), red(2, 0))

	assert.Equal(t, map[Position]string{
		Pos(0, 0): "red",
		Pos(1, 0): "blue",
		Pos(2, 0): "red",
	}, b.FilledMap())
	assert.Equal(t, map[string][]Cell{
		"red":  {red(0, 0), red(2, 0)},
		"blue": {blue(1, 0)},
	}, b.CellsByColor())

	// the returned map is a copy
	b.FilledMap()[Pos(4, 4)] = "green"
	assert.False(t, b.IsFilled(Pos(4, 4)))
}

func TestBoard_IsFull(t *testing.T) {
	var cells []Cell
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			cells = append(cells, Cell{Position: Pos(c, r), Color: Colors[(r+c)%3]})
		}
	}
	assert.True(t, MustBoard(5, 5, cells...).IsFull())
	assert.False(t, MustBoard(5, 5, cells[:24]...).IsFull())
}

func TestBoard_WireFormat(t *testing.T) {
	b := MustBoard(10, 8, red(3, 4))

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":10,"height":8,"filledCells":[{"position":[3,4],"color":"red"}]}`, string(data))

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, b.FilledCells(), decoded.FilledCells())

	empty, err := json.Marshal(MustBoard(5, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":5,"height":5,"filledCells":[]}`, string(empty))

	err = json.Unmarshal([]byte(`{"width":5,"height":5,"filledCells":[{"position":[9,9],"color":"red"}]}`), &decoded)
	assert.ErrorIs(t, err, ErrCellOutOfBounds)
}

func TestCell_WireFormat(t *testing.T) {
	data, err := json.Marshal(Cell{Position: Pos(2, 3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"position":[2,3]}`, string(data))

	var p Position
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &p))
}
