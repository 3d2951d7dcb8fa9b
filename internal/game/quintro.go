package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// QuintroLength is the number of aligned marbles that wins the game
const QuintroLength = 5

var (
	ErrNoColoredCells  = errors.New("quintro must contain at least one colored cell")
	ErrMixedColors     = errors.New("quintro cells must share one color")
	ErrQuintroTooShort = errors.New("quintro is shorter than the quintro length")
)

// Quintro is a run of aligned cells holding at most one color. A complete
// quintro has no empty cells; a potential one could be completed by filling
// its empty cells with that color.
type Quintro struct {
	cells      []Cell
	color      string
	emptyCells int
	key        string
}

// NewQuintro validates cells, listed start to end along their axis
func NewQuintro(cells []Cell) (Quintro, error) {
	if len(cells) < QuintroLength {
		return Quintro{}, fmt.Errorf("%w: %d cells", ErrQuintroTooShort, len(cells))
	}
	q := Quintro{cells: make([]Cell, len(cells))}
	copy(q.cells, cells)

	var sb strings.Builder
	for i, c := range q.cells {
		if c.IsEmpty() {
			q.emptyCells++
		} else if q.color == "" {
			q.color = c.Color
		} else if q.color != c.Color {
			return Quintro{}, fmt.Errorf("%w: %q and %q", ErrMixedColors, q.color, c.Color)
		}
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(c.Position.Column))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(c.Position.Row))
		sb.WriteByte(':')
		sb.WriteString(c.Color)
	}
	if q.color == "" {
		return Quintro{}, ErrNoColoredCells
	}
	q.key = sb.String()
	return q, nil
}

// Cells returns a copy of the cells in axis order
func (q Quintro) Cells() []Cell {
	out := make([]Cell, len(q.cells))
	copy(out, q.cells)
	return out
}

func (q Quintro) Color() string           { return q.color }
func (q Quintro) NumberOfEmptyCells() int { return q.emptyCells }
func (q Quintro) Len() int                { return len(q.cells) }

// IsComplete reports whether every cell is filled
func (q Quintro) IsComplete() bool { return q.emptyCells == 0 && len(q.cells) > 0 }

// Key is the serialized (position, color) signature used for equality
func (q Quintro) Key() string { return q.key }

// Equals compares positions and colors cell by cell
func (q Quintro) Equals(other Quintro) bool { return q.key == other.key }

// CellsAreInSamePositions compares positions only, ignoring colors
func (q Quintro) CellsAreInSamePositions(other Quintro) bool {
	if len(q.cells) != len(other.cells) {
		return false
	}
	for i := range q.cells {
		if q.cells[i].Position != other.cells[i].Position {
			return false
		}
	}
	return true
}

// Contains reports whether p is one of the quintro's cells
func (q Quintro) Contains(p Position) bool {
	for _, c := range q.cells {
		if c.Position == p {
			return true
		}
	}
	return false
}

func (q Quintro) String() string {
	return "Quintro[" + q.key + "]"
}

type quintroJSON struct {
	Cells              []Cell `json:"cells"`
	Color              string `json:"color"`
	NumberOfEmptyCells int    `json:"numberOfEmptyCells"`
}

func (q Quintro) MarshalJSON() ([]byte, error) {
	cells := q.cells
	if cells == nil {
		cells = []Cell{}
	}
	return json.Marshal(quintroJSON{Cells: cells, Color: q.color, NumberOfEmptyCells: q.emptyCells})
}

func (q *Quintro) UnmarshalJSON(data []byte) error {
	var raw quintroJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	nq, err := NewQuintro(raw.Cells)
	if err != nil {
		return err
	}
	*q = nq
	return nil
}

// QuintroSet is an insertion-ordered set of quintros deduplicated by Key
type QuintroSet struct {
	items []Quintro
	index map[string]int
}

// NewQuintroSet returns a set holding qs
func NewQuintroSet(qs ...Quintro) *QuintroSet {
	s := &QuintroSet{index: make(map[string]int, len(qs))}
	for _, q := range qs {
		s.Add(q)
	}
	return s
}

// Add inserts q and reports whether it was not already present
func (s *QuintroSet) Add(q Quintro) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[q.key]; ok {
		return false
	}
	s.index[q.key] = len(s.items)
	s.items = append(s.items, q)
	return true
}

// Has reports whether an equal quintro is in the set
func (s *QuintroSet) Has(q Quintro) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[q.key]
	return ok
}

func (s *QuintroSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Values returns the quintros in insertion order
func (s *QuintroSet) Values() []Quintro {
	if s == nil {
		return nil
	}
	out := make([]Quintro, len(s.items))
	copy(out, s.items)
	return out
}

// Union adds every quintro of other to s and returns s
func (s *QuintroSet) Union(other *QuintroSet) *QuintroSet {
	if other == nil {
		return s
	}
	for _, q := range other.items {
		s.Add(q)
	}
	return s
}

// Filter returns a new set with the quintros matching keep
func (s *QuintroSet) Filter(keep func(Quintro) bool) *QuintroSet {
	out := NewQuintroSet()
	if s == nil {
		return out
	}
	for _, q := range s.items {
		if keep(q) {
			out.Add(q)
		}
	}
	return out
}

// FindSamePositions returns the first quintro whose cells occupy the same positions as q
func (s *QuintroSet) FindSamePositions(q Quintro) (Quintro, bool) {
	if s == nil {
		return Quintro{}, false
	}
	for _, candidate := range s.items {
		if candidate.CellsAreInSamePositions(q) {
			return candidate, true
		}
	}
	return Quintro{}, false
}

// Equals reports whether both sets hold the same quintros, regardless of order
func (s *QuintroSet) Equals(other *QuintroSet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, q := range s.Values() {
		if !other.Has(q) {
			return false
		}
	}
	return true
}

func (s *QuintroSet) MarshalJSON() ([]byte, error) {
	items := s.Values()
	if items == nil {
		items = []Quintro{}
	}
	return json.Marshal(items)
}

func (s *QuintroSet) UnmarshalJSON(data []byte) error {
	var items []Quintro
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = *NewQuintroSet(items...)
	return nil
}
