package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"quintro/internal/game"
)

var marbleColors = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"blue":   color.New(color.FgBlue),
	"green":  color.New(color.FgGreen),
	"yellow": color.New(color.FgYellow),
	"purple": color.New(color.FgMagenta),
	"orange": color.New(color.FgHiRed),
	"black":  color.New(color.FgHiBlack),
	"white":  color.New(color.FgWhite),
}

// CheckCmd returns the check command analysing a board file
func CheckCmd() *cobra.Command {
	var (
		column, row int
		potential   bool
	)

	cmd := &cobra.Command{
		Use:   "check [board.json]",
		Short: "Find quintros on a board",
		Long: `Read a board in its JSON form from a file or stdin, draw it and list
its complete quintros. Marbles that belong to a quintro are drawn in capitals.

Examples:
  quintro check board.json
  quintro check --column 3 --row 4 --potential < board.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var b game.Board
			if err := json.NewDecoder(in).Decode(&b); err != nil {
				return fmt.Errorf("failed to read board: %w", err)
			}

			out := cmd.OutOrStdout()
			complete := game.GetAllPotentialQuintros(b, game.WithNoEmptyCells())
			renderBoard(out, b, complete)
			fmt.Fprintln(out)
			printQuintros(out, "Complete quintros", complete)

			if potential {
				var (
					qs  *game.QuintroSet
					err error
				)
				if cmd.Flags().Changed("column") || cmd.Flags().Changed("row") {
					qs, err = game.GetPotentialQuintros(b, &game.Cell{Position: game.Pos(column, row)})
					if err != nil {
						return err
					}
				} else {
					qs = game.GetAllPotentialQuintros(b)
				}
				printQuintros(out, "Potential quintros", qs)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&column, "column", 0, "column of the cell to analyse")
	cmd.Flags().IntVar(&row, "row", 0, "row of the cell to analyse")
	cmd.Flags().BoolVarP(&potential, "potential", "p", false, "also list potential quintros")
	return cmd
}

func marble(c string, highlight bool) string {
	if c == "" {
		return "."
	}
	s := c[:1]
	if highlight {
		s = strings.ToUpper(s)
	}
	if fc, ok := marbleColors[c]; ok {
		return fc.Sprint(s)
	}
	return s
}

func renderBoard(w io.Writer, b game.Board, highlight *game.QuintroSet) {
	marked := map[game.Position]bool{}
	for _, q := range highlight.Values() {
		for _, c := range q.Cells() {
			marked[c.Position] = true
		}
	}
	filled := b.FilledMap()
	for r := 0; r < b.Height(); r++ {
		cells := make([]string, b.Width())
		for c := range cells {
			p := game.Pos(c, r)
			cells[c] = marble(filled[p], marked[p])
		}
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}

func printQuintros(w io.Writer, title string, qs *game.QuintroSet) {
	fmt.Fprintf(w, "%s: %d\n", title, qs.Len())
	for _, q := range qs.Values() {
		fmt.Fprintf(w, "  %-6s %d empty  %s\n", q.Color(), q.NumberOfEmptyCells(), q)
	}
}
