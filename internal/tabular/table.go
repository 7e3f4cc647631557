// Package tabular parses the loosely structured CSV exports the indicator
// feeds publish. Column layouts drift between revisions, so columns are
// located through a ranked chain of matcher strategies instead of hardcoded
// offsets.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a parsed sheet: one header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Parse reads CSV content into a Table. Rows shorter than the header are
// kept as-is; the accessors treat missing cells as empty.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return &Table{Header: header, Rows: records[1:]}, nil
}

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// FloatCell parses the cell as a float. Thousands separators are tolerated.
func (t *Table) FloatCell(row, col int) (float64, bool) {
	s := strings.ReplaceAll(t.Cell(row, col), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
