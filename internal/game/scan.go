package game

// Direction is a step along one axis; each component is -1, 0 or 1
type Direction struct {
	Column int
	Row    int
}

var (
	Horizontal       = Direction{Column: 1, Row: 0}
	Vertical         = Direction{Column: 0, Row: 1}
	TopLeftDiagonal  = Direction{Column: 1, Row: 1}  // top-left to bottom-right
	TopRightDiagonal = Direction{Column: 1, Row: -1} // bottom-left to top-right
)

// Axes lists the four directions a quintro can run along
var Axes = []Direction{Horizontal, Vertical, TopLeftDiagonal, TopRightDiagonal}

type scanOptions struct {
	noEmptyCells bool
}

// Option tunes a quintro search
type Option func(*scanOptions)

// WithNoEmptyCells restricts results to complete quintros
func WithNoEmptyCells() Option {
	return func(o *scanOptions) { o.noEmptyCells = true }
}

func buildOptions(opts []Option) scanOptions {
	var o scanOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// findPotentialQuintros returns every candidate quintro along dir that contains start.
// Only the QuintroLength frames holding start are examined, so the cost per call
// does not depend on the board size.
func findPotentialQuintros(b Board, start Cell, dir Direction, o scanOptions) *QuintroSet {
	out := NewQuintroSet()
	if !b.Contains(start.Position) || (dir.Column == 0 && dir.Row == 0) {
		return out
	}

	for offset := QuintroLength - 1; offset >= 0; offset-- {
		frameStart := start.Position.add(dir.Column, dir.Row, -offset)
		frameEnd := frameStart.add(dir.Column, dir.Row, QuintroLength-1)
		if !b.Contains(frameStart) || !b.Contains(frameEnd) {
			continue
		}

		frame, color, ok := buildFrame(b, frameStart, dir, start.Color)
		if !ok {
			continue
		}
		run := extendRun(b, frame, dir, color)

		for _, cells := range trimRun(run) {
			q, err := NewQuintro(cells)
			if err != nil {
				// all-empty window
				continue
			}
			if o.noEmptyCells && q.NumberOfEmptyCells() > 0 {
				continue
			}
			out.Add(q)
		}
	}
	return out
}

// buildFrame walks QuintroLength cells from frameStart. It fails on the first
// cell whose color conflicts with the frame color. An empty start color is
// replaced by the first color met in the frame.
func buildFrame(b Board, frameStart Position, dir Direction, color string) ([]Cell, string, bool) {
	frame := make([]Cell, 0, QuintroLength+2)
	for i := 0; i < QuintroLength; i++ {
		p := frameStart.add(dir.Column, dir.Row, i)
		c := b.index[p]
		if c != "" {
			if color == "" {
				color = c
			} else if c != color {
				return nil, "", false
			}
		}
		frame = append(frame, Cell{Position: p, Color: c})
	}
	return frame, color, true
}

// extendRun grows the frame over same-colored cells directly beyond either end
func extendRun(b Board, frame []Cell, dir Direction, color string) []Cell {
	if color == "" || len(frame) == 0 {
		return frame
	}

	var before []Cell
	for p := frame[0].Position.add(dir.Column, dir.Row, -1); b.Contains(p) && b.index[p] == color; p = p.add(dir.Column, dir.Row, -1) {
		before = append(before, Cell{Position: p, Color: color})
	}
	for p := frame[len(frame)-1].Position.add(dir.Column, dir.Row, 1); b.Contains(p) && b.index[p] == color; p = p.add(dir.Column, dir.Row, 1) {
		frame = append(frame, Cell{Position: p, Color: color})
	}
	if len(before) == 0 {
		return frame
	}

	run := make([]Cell, 0, len(before)+len(frame))
	for i := len(before) - 1; i >= 0; i-- {
		run = append(run, before[i])
	}
	return append(run, frame...)
}

// trimRun turns an extended run into the candidate cell lists to validate.
// A run longer than QuintroLength with an empty end is cut to windows that
// cover its whole colored span: the last window found while trimming from the
// start and the last one found while trimming from the end. Any other run of
// sufficient length is kept whole.
func trimRun(run []Cell) [][]Cell {
	first, last := -1, -1
	for i, c := range run {
		if c.IsEmpty() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return nil
	}

	n := len(run)
	if n > QuintroLength && (run[0].IsEmpty() || run[n-1].IsEmpty()) {
		// window start s needs s <= first, s+QuintroLength-1 >= last and s+QuintroLength <= n
		fits := func(s int) bool {
			return s >= 0 && s <= first && s+QuintroLength-1 >= last && s+QuintroLength <= n
		}

		fromStart, fromEnd := -1, -1
		for s := 0; s+QuintroLength <= n; s++ {
			if fits(s) {
				fromStart = s
			}
		}
		for e := n - 1; e >= QuintroLength-1; e-- {
			if s := e - (QuintroLength - 1); fits(s) {
				fromEnd = s
			}
		}

		var out [][]Cell
		if fromStart >= 0 {
			out = append(out, run[fromStart:fromStart+QuintroLength])
		}
		if fromEnd >= 0 && fromEnd != fromStart {
			out = append(out, run[fromEnd:fromEnd+QuintroLength])
		}
		return out
	}

	if n >= QuintroLength {
		return [][]Cell{run}
	}
	return nil
}
