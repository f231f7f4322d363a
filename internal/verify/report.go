package verify

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/oukeidos/tarjama/internal/apperrors"
	"github.com/rivo/uniseg"
)

func mark(c Counts) string {
	if c.Complete() {
		return "✓"
	}
	return "⚠"
}

const failedLegend = "_Failed counts exclude non-translatable literals (true, false, null, yes, no, 0-9), which are copied rather than translated._"

func num(n int) string { return humanize.Comma(int64(n)) }

// WriteMarkdown renders the verification report.
func WriteMarkdown(w io.Writer, agg Aggregate) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "# Translation Verification Report\n\n")
	fmt.Fprintf(b, "## Summary\n\n")
	fmt.Fprintf(b, "- **Total Files**: %s\n", num(len(agg.Files)))
	fmt.Fprintf(b, "- **Total Items**: %s\n", num(agg.Items))
	fmt.Fprintf(b, "- **Total Fields**: %s\n", num(agg.Total))
	fmt.Fprintf(b, "- **Translation Rate**: %.1f%%\n", agg.TranslationRate())
	fmt.Fprintf(b, "- **Success Rate**: %.1f%%\n", agg.CoverageRate())
	fmt.Fprintf(b, "- **Failed Translations**: %s\n", num(agg.Failed))
	if len(agg.Errors) > 0 {
		fmt.Fprintf(b, "- **Unreadable Files**: %s\n", num(len(agg.Errors)))
	}
	fmt.Fprintf(b, "\n%s\n", failedLegend)

	fmt.Fprintf(b, "\n## File Details\n\n")
	fmt.Fprintf(b, "| File | Items | Fields | Translated | Failed | Success Rate |\n")
	fmt.Fprintf(b, "|------|-------|--------|------------|--------|--------------|\n")
	for _, f := range agg.Files {
		fmt.Fprintf(b, "| %s %s | %s | %s | %s | %s | %.1f%% |\n",
			mark(f.Counts), escapeCell(f.Name), num(f.Items), num(f.Total),
			num(f.Translated), num(f.Failed), f.SuccessRate())
	}

	fmt.Fprintf(b, "\n## Files Needing Attention\n\n")
	if attention := agg.NeedsAttention(); len(attention) > 0 {
		for _, f := range attention {
			fmt.Fprintf(b, "- **%s**: %s failed translations, %s untranslated (%.1f%% success)\n",
				f.Name, num(f.Failed), num(f.Total-f.Translated), f.SuccessRate())
		}
	} else {
		fmt.Fprintf(b, "All files have been successfully translated.\n")
	}

	if groups := agg.GroupsNeedingAttention(); len(groups) > 0 {
		fmt.Fprintf(b, "\n## Field Groups Needing Attention\n\n")
		fmt.Fprintf(b, "| File | Field | Fields | Failed | Success Rate |\n")
		fmt.Fprintf(b, "|------|-------|--------|--------|--------------|\n")
		for _, g := range groups {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %.1f%% |\n",
				escapeCell(g.File), escapeCell(g.Field), num(g.Total), num(g.Failed), g.SuccessRate())
		}
	}

	if len(agg.Errors) > 0 {
		fmt.Fprintf(b, "\n## Unreadable Files\n\n")
		for _, e := range agg.Errors {
			fmt.Fprintf(b, "- **%s**: %s\n", e.Name, apperrors.PublicMessage(e.Err))
		}
	}
	return b.Flush()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// WriteSummary renders the console table. Columns are aligned by display
// width so that Arabic and CJK file names line up.
func WriteSummary(w io.Writer, agg Aggregate) error {
	b := bufio.NewWriter(w)
	header := []string{"File", "Items", "Fields", "Translated", "Failed", "Success"}
	rows := [][]string{header}
	for _, f := range agg.Files {
		rows = append(rows, []string{
			mark(f.Counts) + " " + f.Name,
			num(f.Items), num(f.Total), num(f.Translated), num(f.Failed),
			fmt.Sprintf("%.1f%%", f.SuccessRate()),
		})
	}
	for _, e := range agg.Errors {
		rows = append(rows, []string{"✗ " + e.Name, "-", "-", "-", "-", "-"})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], uniseg.StringWidth(cell))
		}
	}
	for _, row := range rows {
		for i, cell := range row {
			pad := strings.Repeat(" ", widths[i]-uniseg.StringWidth(cell))
			if i == 0 {
				fmt.Fprintf(b, "%s%s", cell, pad)
			} else {
				fmt.Fprintf(b, "  %s%s", pad, cell)
			}
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(b, "\nFiles: %s  Items: %s  Fields: %s\n", num(len(agg.Files)), num(agg.Items), num(agg.Total))
	fmt.Fprintf(b, "Translated: %s (%.1f%%)  Failed: %s (%.1f%%)  Coverage: %.1f%%\n",
		num(agg.Translated), agg.TranslationRate(), num(agg.Failed), agg.FailureRate(), agg.CoverageRate())
	if attention := agg.NeedsAttention(); len(attention) > 0 {
		fmt.Fprintf(b, "\nFiles needing attention (%d):\n", len(attention))
		for _, f := range attention {
			fmt.Fprintf(b, "  - %s: %s failed\n", f.Name, num(f.Failed))
		}
	}
	return b.Flush()
}
