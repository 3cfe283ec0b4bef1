package rate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fxscan/internal/domain"
)

var tableHeaders = [5]string{"Pair", "Rate", "Bid", "Ask", "Last Refreshed"}

// TablePresenter renders a snapshot as an aligned table, one row per pair.
// Failed pairs keep their row with the failure reason in the last column.
type TablePresenter struct {
	out io.Writer
}

func NewTablePresenter(out io.Writer) *TablePresenter {
	return &TablePresenter{out: out}
}

func (p *TablePresenter) Render(snapshot domain.Snapshot) error {
	rows := make([][5]string, 0, len(snapshot.Quotes))
	for _, quote := range snapshot.Quotes {
		rows = append(rows, quoteRow(quote))
	}

	widths := [5]int{}
	for i, header := range tableHeaders {
		widths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", snapshot.At.Format("2006-01-02 15:04:05"))
	writeRow(&b, tableHeaders, widths)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		writeRow(&b, row, widths)
	}

	_, err := io.WriteString(p.out, b.String())
	return err
}

func quoteRow(q domain.Quote) [5]string {
	if !q.OK() {
		return [5]string{q.Pair.String(), "-", "-", "-", "ERROR: " + q.Err}
	}
	return [5]string{
		q.Pair.String(),
		strconv.FormatFloat(q.Rate, 'f', 6, 64),
		formatOptional(q.Bid),
		formatOptional(q.Ask),
		q.LastRefreshed,
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func writeRow(b *strings.Builder, cells [5]string, widths [5]int) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
	}
	b.WriteByte('\n')
}
