// Package report renders workload reports as text tables, JSON, YAML and
// HTML height charts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/rbtree/pkg/workload"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrUnknownFormat is returned by Encode for formats other than the three above.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted formats in help-text order.
func Formats() []string {
	return []string{FormatTable, FormatJSON, FormatYAML}
}

// Encode writes rep to w in the given format.
func Encode(w io.Writer, rep *workload.Report, format string) error {
	switch strings.ToLower(format) {
	case FormatTable:
		return encodeTable(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(rep)
		if err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}

		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(rep)
		if err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

func encodeTable(w io.Writer, rep *workload.Report) error {
	ops := table.NewWriter()
	ops.SetStyle(table.StyleLight)
	ops.SetTitle("Operations")
	ops.AppendHeader(table.Row{"Op", "Count", "Hits", "Misses"})

	total := 0

	for _, stats := range rep.Ops {
		ops.AppendRow(table.Row{
			stats.Op,
			humanize.Comma(int64(stats.Count)),
			humanize.Comma(int64(stats.Hits)),
			humanize.Comma(int64(stats.Misses)),
		})

		total += stats.Count
	}

	ops.AppendFooter(table.Row{"Total", humanize.Comma(int64(total))})

	summary := table.NewWriter()
	summary.SetStyle(table.StyleLight)
	summary.SetTitle("Tree")
	summary.AppendRows([]table.Row{
		{"Seed", rep.Seed},
		{"Order", rep.Order},
		{"Key space", humanize.Comma(int64(rep.KeySpace))},
		{"Final size", humanize.Comma(int64(rep.FinalSize))},
		{"Max height", rep.MaxHeight},
		{"Height bound", fmt.Sprintf("%.2f", workload.HeightBound(rep.FinalSize))},
		{"Validations", humanize.Comma(int64(rep.Validations))},
		{"Elapsed", rep.Elapsed.String()},
		{"Throughput", humanize.SIWithDigits(rep.Throughput(), 1, "ops/s")},
	})

	_, err := fmt.Fprintf(w, "%s\n%s\n", ops.Render(), summary.Render())
	if err != nil {
		return fmt.Errorf("write table report: %w", err)
	}

	return nil
}
