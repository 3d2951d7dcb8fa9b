package game

import "fmt"

// ChangedQuintro pairs a quintro that gained marbles with the cells that differ.
// ChangedCells has one entry per cell index: the updated cell, or nil if unchanged.
type ChangedQuintro struct {
	Quintro      Quintro `json:"quintro"`
	Previous     Quintro `json:"previous"`
	ChangedCells []*Cell `json:"changedCells"`
}

// Delta describes how the potential quintros through a position change when a marble lands there
type Delta struct {
	Added                 *QuintroSet      `json:"added"`
	Removed               *QuintroSet      `json:"removed"`
	Changed               []ChangedQuintro `json:"changed"`
	AllContainingQuintros *QuintroSet      `json:"allContainingQuintros"`
}

// IsEmpty reports whether the placement changes nothing
func (d Delta) IsEmpty() bool {
	return d.Added.Len() == 0 && d.Removed.Len() == 0 && len(d.Changed) == 0
}

// GetPotentialQuintroDelta computes the delta of filling newCell on b, without modifying b
func GetPotentialQuintroDelta(b Board, newCell Cell, opts ...Option) (Delta, error) {
	return potentialDelta(b, GetAllPotentialQuintros(b, opts...), newCell, buildOptions(opts))
}

// potentialDelta takes the board's full potential quintro set precomputed so
// that several candidate cells can be evaluated against one scan.
func potentialDelta(b Board, all *QuintroSet, newCell Cell, o scanOptions) (Delta, error) {
	if newCell.IsEmpty() {
		return Delta{}, fmt.Errorf("%w: %s", ErrEmptyFilledCell, newCell.Position)
	}
	nb, err := b.FillCells(newCell)
	if err != nil {
		return Delta{}, err
	}

	initial := all.Filter(func(q Quintro) bool { return q.Contains(newCell.Position) })
	withNew := findForCell(nb, newCell, o)

	d := Delta{
		Added:                 NewQuintroSet(),
		Removed:               NewQuintroSet(),
		Changed:               []ChangedQuintro{},
		AllContainingQuintros: withNew,
	}
	for _, q := range withNew.items {
		if _, ok := initial.FindSamePositions(q); !ok {
			d.Added.Add(q)
		}
	}
	for _, q := range initial.items {
		match, ok := withNew.FindSamePositions(q)
		if !ok {
			d.Removed.Add(q)
			continue
		}
		if match.Equals(q) {
			continue
		}
		changed := make([]*Cell, len(match.cells))
		for i := range match.cells {
			if match.cells[i] != q.cells[i] {
				c := match.cells[i]
				changed[i] = &c
			}
		}
		d.Changed = append(d.Changed, ChangedQuintro{Quintro: match, Previous: q, ChangedCells: changed})
	}
	return d, nil
}
