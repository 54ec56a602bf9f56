package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"budgetviz/internal/core"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// barCells is the width of a full bar in the terminal table.
const barCells = 20

// RenderReport writes the report, or the message for the error that stopped
// the pipeline, to w. It returns the pipeline error unchanged except for the
// empty sheet case, which is a state to show rather than a failure.
func RenderReport(w io.Writer, source string, report core.Report, err error) error {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(core.ReportTitle))
	b.WriteString("\n")

	switch core.KindOf(err) {
	case core.KindNone:
	case core.KindNoData:
		b.WriteString(WarningStyle.Render(core.NoDataText))
		b.WriteString("\n")
		_, werr := io.WriteString(w, b.String())
		return werr
	default:
		b.WriteString(ErrorStyle.Render(core.UserMessage(err)))
		b.WriteString("\n")
		_, _ = io.WriteString(w, b.String())
		return err
	}

	b.WriteString(TotalStyle.Render(core.TotalLine(report)))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render(core.TableTitle))
	b.WriteString("\n")
	b.WriteString(renderTable(report))
	b.WriteString("\n")
	b.WriteString(SubtleStyle.Render(footer(source, report.Stats)))
	b.WriteString("\n")

	_, werr := io.WriteString(w, b.String())
	return werr
}

func renderTable(report core.Report) string {
	max := report.MaxShare()
	rows := make([][]string, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Name,
			core.FormatTotal(s.Total),
			core.FormatShare(s.Share),
			BarStyle.Render(bar(core.BarWidth(s.Share, max))),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtleStyle).
		Headers(core.LabelRank, core.LabelName, core.LabelAmount, core.LabelShare, "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := TableCellStyle
			if row == table.HeaderRow {
				style = TableHeaderStyle
			}
			if col == 0 || col == 2 || col == 3 {
				style = style.Align(lipgloss.Right)
			}
			return style
		}).
		String()
}

// bar draws a width between 0 and 100 as block characters, using eighth
// blocks for the remainder.
func bar(width float64) string {
	eighths := int(math.Round(width / 100 * barCells * 8))
	if eighths <= 0 {
		return ""
	}
	full, rest := eighths/8, eighths%8
	s := strings.Repeat("█", full)
	if rest > 0 {
		s += string([]rune("▏▎▍▌▋▊▉")[rest-1])
	}
	return s
}

func footer(source string, st core.ReportStats) string {
	return fmt.Sprintf("Source : %s · %d lignes lues, %d retenues, %d contributeurs",
		source, st.RowsRead, st.Kept, st.Contributors)
}
