package game

import (
	"encoding/json"
	"fmt"
)

// Position is a board coordinate, column first
type Position struct {
	Column int
	Row    int
}

// Pos is shorthand for Position{Column: column, Row: row}
func Pos(column, row int) Position {
	return Position{Column: column, Row: row}
}

// add returns the position moved n steps along the direction (dc, dr)
func (p Position) add(dc, dr, n int) Position {
	return Position{Column: p.Column + dc*n, Row: p.Row + dr*n}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Column, p.Row)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Column, p.Row})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("position must be [column, row], got %d values", len(pair))
	}
	p.Column, p.Row = pair[0], pair[1]
	return nil
}

// Cell is a position plus the color occupying it; an empty Color means the cell is free
type Cell struct {
	Position Position `json:"position"`
	Color    string   `json:"color,omitempty"`
}

// IsEmpty reports whether no marble occupies the cell
func (c Cell) IsEmpty() bool { return c.Color == "" }

func (c Cell) String() string {
	if c.IsEmpty() {
		return c.Position.String()
	}
	return c.Position.String() + ":" + c.Color
}
