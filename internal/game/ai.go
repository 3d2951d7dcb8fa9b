package game

// weights indexed by the number of marbles a potential quintro holds
var (
	ownWeights   = [QuintroLength + 1]int{0, 1, 10, 100, 1000, 100000}
	blockWeights = [QuintroLength + 1]int{0, 1, 12, 120, 1200, 100000}
)

// emptyPositions lists the free cells in row-major order
func emptyPositions(b Board) []Position {
	out := make([]Position, 0, b.width*b.height-len(b.filled))
	for r := 0; r < b.height; r++ {
		for c := 0; c < b.width; c++ {
			p := Pos(c, r)
			if !b.IsFilled(p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// completes reports whether color placed at p makes a quintro
func completes(b Board, p Position, color string) bool {
	nb, cell, err := addMarble(b, p, color)
	if err != nil {
		return false
	}
	qs, err := GetQuintros(nb, &cell)
	return err == nil && qs.Len() > 0
}

func filledCount(q Quintro) int {
	n := q.Len() - q.NumberOfEmptyCells()
	if n > QuintroLength {
		n = QuintroLength
	}
	return n
}

// scoreDelta values a placement: quintros it builds toward plus opposing ones it breaks
func scoreDelta(d Delta, color string) int {
	score := 0
	for _, q := range d.AllContainingQuintros.items {
		score += ownWeights[filledCount(q)]
	}
	for _, q := range d.Removed.items {
		if q.Color() != color {
			score += blockWeights[filledCount(q)]
		}
	}
	return score
}

// SuggestMove picks a position for color: an immediate win, else a block of an
// opponent's immediate win, else the placement with the best delta score.
// Ties go to the first position in row-major order. ok is false on a full board.
func SuggestMove(b Board, color string, opponents []string) (Position, bool) {
	candidates := emptyPositions(b)
	if len(candidates) == 0 || color == "" {
		return Position{}, false
	}
	if len(b.filled) == 0 {
		return Pos(b.width/2, b.height/2), true
	}

	for _, p := range candidates {
		if completes(b, p, color) {
			return p, true
		}
	}
	for _, opp := range opponents {
		for _, p := range candidates {
			if completes(b, p, opp) {
				return p, true
			}
		}
	}

	all := GetAllPotentialQuintros(b)
	best, bestScore := candidates[0], -1
	for _, p := range candidates {
		d, err := potentialDelta(b, all, Cell{Position: p, Color: color}, scanOptions{})
		if err != nil {
			continue
		}
		if sc := scoreDelta(d, color); sc > bestScore {
			best, bestScore = p, sc
		}
	}
	return best, true
}
