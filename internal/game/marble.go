package game

// addMarble validates and places a marble of color at p, returning the new board
func addMarble(b Board, p Position, color string) (Board, Cell, error) {
	// rejects positions outside the grid
	if !b.Contains(p) {
		return Board{}, Cell{}, ErrCellOutOfBounds
	}
	// rejects non playable colors
	if color == "" {
		return Board{}, Cell{}, ErrInvalidColor
	}
	// a cell holds at most one marble
	if b.IsFilled(p) {
		return Board{}, Cell{}, ErrCellFilled
	}
	c := Cell{Position: p, Color: color}
	nb, err := b.FillCells(c)
	if err != nil {
		return Board{}, Cell{}, err
	}
	return nb, c, nil
}
