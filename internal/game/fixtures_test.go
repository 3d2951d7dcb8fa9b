package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var fixtureColors = map[string]string{
	"r": "red",
	"b": "blue",
	"g": "green",
	"y": "yellow",
}

// boardFromLayout builds a board from rows of space separated tokens, "." for
// an empty cell and a color letter otherwise. Cells are filled row by row.
func boardFromLayout(t *testing.T, layout string) Board {
	t.Helper()

	var rows [][]string
	for _, line := range strings.Split(strings.TrimSpace(layout), "\n") {
		rows = append(rows, strings.Fields(line))
	}
	require.NotEmpty(t, rows)

	var cells []Cell
	for r, row := range rows {
		require.Len(t, row, len(rows[0]), "row %d has the wrong width", r)
		for c, tok := range row {
			if tok == "." {
				continue
			}
			color, ok := fixtureColors[tok]
			require.True(t, ok, "unknown token %q", tok)
			cells = append(cells, Cell{Position: Pos(c, r), Color: color})
		}
	}
	b, err := NewBoard(len(rows[0]), len(rows), cells...)
	require.NoError(t, err)
	return b
}

// run lists the cells from `from` stepping along dir, all holding color
func run(from Position, dir Direction, n int, color string) []Cell {
	out := make([]Cell, n)
	for i := range out {
		out[i] = Cell{Position: from.add(dir.Column, dir.Row, i), Color: color}
	}
	return out
}

func positions(q Quintro) []Position {
	var out []Position
	for _, c := range q.Cells() {
		out = append(out, c.Position)
	}
	return out
}

// axisOf returns the direction the quintro's cells run along
func axisOf(q Quintro) Direction {
	cells := q.Cells()
	return Direction{
		Column: cells[1].Position.Column - cells[0].Position.Column,
		Row:    cells[1].Position.Row - cells[0].Position.Row,
	}
}

func red(c, r int) Cell  { return Cell{Position: Pos(c, r), Color: "red"} }
func blue(c, r int) Cell { return Cell{Position: Pos(c, r), Color: "blue"} }
