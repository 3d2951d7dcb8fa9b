package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MinBoardSize = 5
	MaxBoardSize = 25
)

var (
	ErrInvalidDimensions = errors.New("board width and height must be positive")
	ErrCellOutOfBounds   = errors.New("cell out of board bounds")
	ErrEmptyFilledCell   = errors.New("filled cell has no color")
	ErrDuplicateCell     = errors.New("position already filled")
)

// Board is an immutable grid: its dimensions plus the filled cells in the order they were placed
type Board struct {
	width  int
	height int
	filled []Cell              // insertion order
	index  map[Position]string // position -> color
}

// NewBoard validates the dimensions and the pre-filled cells and returns the board
func NewBoard(width, height int, filled ...Cell) (Board, error) {
	if width <= 0 || height <= 0 {
		return Board{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	b := Board{
		width:  width,
		height: height,
		filled: make([]Cell, 0, len(filled)),
		index:  make(map[Position]string, len(filled)),
	}
	if err := b.appendCells(filled); err != nil {
		return Board{}, err
	}
	return b, nil
}

// MustBoard is NewBoard that panics on invalid input, meant for fixtures
func MustBoard(width, height int, filled ...Cell) Board {
	b, err := NewBoard(width, height, filled...)
	if err != nil {
		panic(err)
	}
	return b
}

// appendCells validates and records cells on a board that is not yet shared
func (b *Board) appendCells(cells []Cell) error {
	for _, c := range cells {
		if !b.Contains(c.Position) {
			return fmt.Errorf("%w: %s on %dx%d board", ErrCellOutOfBounds, c.Position, b.width, b.height)
		}
		if c.IsEmpty() {
			return fmt.Errorf("%w: %s", ErrEmptyFilledCell, c.Position)
		}
		if _, ok := b.index[c.Position]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCell, c.Position)
		}
		b.index[c.Position] = c.Color
		b.filled = append(b.filled, c)
	}
	return nil
}

func (b Board) Width() int  { return b.width }
func (b Board) Height() int { return b.height }

// FilledCells returns a copy of the filled cells in placement order
func (b Board) FilledCells() []Cell {
	out := make([]Cell, len(b.filled))
	copy(out, b.filled)
	return out
}

// NumFilled returns how many cells hold a marble
func (b Board) NumFilled() int { return len(b.filled) }

// LastFilledCell returns the most recently placed cell, if any
func (b Board) LastFilledCell() (Cell, bool) {
	if len(b.filled) == 0 {
		return Cell{}, false
	}
	return b.filled[len(b.filled)-1], true
}

// Contains reports whether p lies within [0,width)x[0,height)
func (b Board) Contains(p Position) bool {
	return p.Column >= 0 && p.Column < b.width && p.Row >= 0 && p.Row < b.height
}

// GetCell returns the cell at p, empty when no marble is there
func (b Board) GetCell(p Position) (Cell, error) {
	if !b.Contains(p) {
		return Cell{}, fmt.Errorf("%w: %s on %dx%d board", ErrCellOutOfBounds, p, b.width, b.height)
	}
	return Cell{Position: p, Color: b.index[p]}, nil
}

// IsFilled reports whether a marble occupies p
func (b Board) IsFilled(p Position) bool {
	_, ok := b.index[p]
	return ok
}

// IsFull reports whether every cell holds a marble
func (b Board) IsFull() bool {
	return len(b.filled) >= b.width*b.height
}

// FillCells derives a new board with cells appended; the receiver is left untouched
func (b Board) FillCells(cells ...Cell) (Board, error) {
	nb := Board{
		width:  b.width,
		height: b.height,
		filled: make([]Cell, len(b.filled), len(b.filled)+len(cells)),
		index:  make(map[Position]string, len(b.filled)+len(cells)),
	}
	copy(nb.filled, b.filled)
	for p, c := range b.index {
		nb.index[p] = c
	}
	if err := nb.appendCells(cells); err != nil {
		return Board{}, err
	}
	return nb, nil
}

// FilledMap returns a position -> color lookup of the filled cells
func (b Board) FilledMap() map[Position]string {
	out := make(map[Position]string, len(b.index))
	for p, c := range b.index {
		out[p] = c
	}
	return out
}

// CellsByColor groups the filled cells by color, each group in placement order
func (b Board) CellsByColor() map[string][]Cell {
	out := make(map[string][]Cell)
	for _, c := range b.filled {
		out[c.Color] = append(out[c.Color], c)
	}
	return out
}

type boardJSON struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	FilledCells []Cell `json:"filledCells"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	cells := b.filled
	if cells == nil {
		cells = []Cell{}
	}
	return json.Marshal(boardJSON{Width: b.width, Height: b.height, FilledCells: cells})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nb, err := NewBoard(raw.Width, raw.Height, raw.FilledCells...)
	if err != nil {
		return err
	}
	*b = nb
	return nil
}
