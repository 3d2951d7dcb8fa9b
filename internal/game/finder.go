package game

import (
	"errors"
	"fmt"
)

var ErrStartCellRequired = errors.New("start cell is required")

// FindAllPotentialQuintrosForCell unions the axis scans of start over all four axes
func FindAllPotentialQuintrosForCell(b Board, start Cell, opts ...Option) *QuintroSet {
	return findForCell(b, start, buildOptions(opts))
}

func findForCell(b Board, start Cell, o scanOptions) *QuintroSet {
	out := NewQuintroSet()
	for _, dir := range Axes {
		out.Union(findPotentialQuintros(b, start, dir, o))
	}
	return out
}

// GetAllPotentialQuintros scans from every filled cell of the board
func GetAllPotentialQuintros(b Board, opts ...Option) *QuintroSet {
	o := buildOptions(opts)
	out := NewQuintroSet()
	for _, c := range b.filled {
		out.Union(findForCell(b, c, o))
	}
	return out
}

// GetPotentialQuintros returns the candidate quintros through start. A start
// cell without a color takes the color found on the board at its position.
func GetPotentialQuintros(b Board, start *Cell, opts ...Option) (*QuintroSet, error) {
	if start == nil {
		return nil, ErrStartCellRequired
	}
	if !b.Contains(start.Position) {
		return nil, fmt.Errorf("%w: start %s on %dx%d board", ErrCellOutOfBounds, start.Position, b.width, b.height)
	}
	c := *start
	if c.Color == "" {
		c.Color = b.index[c.Position]
	}
	return findForCell(b, c, buildOptions(opts)), nil
}

// GetQuintros returns the complete quintros through start, or through the last
// filled cell when start is nil. A non-empty result means that color has won.
func GetQuintros(b Board, start *Cell, opts ...Option) (*QuintroSet, error) {
	if start == nil {
		last, ok := b.LastFilledCell()
		if !ok {
			return NewQuintroSet(), nil
		}
		start = &last
	}
	return GetPotentialQuintros(b, start, append(opts, WithNoEmptyCells())...)
}
