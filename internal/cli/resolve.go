package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/tiling"
)

// resolvedCount is the JSON form of one resolve row.
type resolvedCount struct {
	Cells      int    `json:"cells"`
	Method     string `json:"method"`
	Border     int    `json:"border"`
	Center     int    `json:"center"`
	BorderSide int    `json:"border_side,omitempty"`
	CenterSide int    `json:"center_side,omitempty"`
}

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		upto   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [counts...]",
		Short: "Show how cell counts are laid out",
		Long: `Resolve reports the layout chosen for each cell count: an even grid for
perfect squares, a one-cell border ring around an even center block, or
impossible when neither fits.`,
		Example: `  lodgrid resolve 4 8 41
  lodgrid resolve --upto 50
  lodgrid resolve 17 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := parseCounts(args)
			if err != nil {
				return err
			}
			for n := 1; n <= upto; n++ {
				counts = append(counts, n)
			}
			if len(counts) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "give counts or --upto")
			}

			rows := resolveCounts(counts)
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}

			fmt.Fprintln(stdout, resolveTable(rows).Render())
			impossible := 0
			for _, r := range rows {
				if r.Method == tiling.Impossible.String() {
					impossible++
				}
			}
			if impossible > 0 {
				printWarning("%d of %d counts cannot be laid out", impossible, len(rows))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&upto, "upto", 0, "also resolve every count from 1 to N")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func resolveCounts(counts []int) []resolvedCount {
	rows := make([]resolvedCount, len(counts))
	for i, n := range counts {
		// Impossible plans still carry Cells and Method.
		plan, _ := tiling.PlanFor(n)
		rows[i] = resolvedCount{
			Cells:      n,
			Method:     plan.Method.String(),
			Border:     plan.Border,
			Center:     plan.Center,
			BorderSide: plan.BorderSide,
			CenterSide: plan.CenterSide,
		}
	}
	return rows
}

func resolveTable(rows []resolvedCount) *table.Table {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{
			strconv.Itoa(r.Cells),
			r.Method,
			dashIfZero(r.Border),
			dashIfZero(r.Center),
			dashIfZero(r.BorderSide),
			dashIfZero(r.CenterSide),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Cells", "Method", "Border", "Center", "Ring side", "Center side").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			method := rows[row].Method
			if col == 1 || method == tiling.Impossible.String() {
				return base.Inherit(methodStyle(method))
			}
			return base
		})
}

func dashIfZero(n int) string {
	if n == 0 {
		return "—"
	}
	return strconv.Itoa(n)
}
