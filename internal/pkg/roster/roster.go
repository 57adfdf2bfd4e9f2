// Package roster reads student lists from Excel workbooks.
package roster

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyWorkbook is returned when the workbook has no sheets
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Entry is one student row of a roster sheet
type Entry struct {
	Row       int
	FirstName string
	LastName  string
}

// Result is the outcome of parsing a roster
type Result struct {
	Entries []Entry
	// Rejected holds the 1-based sheet rows skipped for a missing name
	Rejected []int
}

// Parse reads the first sheet of an .xlsx workbook. Column A is the first
// name and column B the last name; a leading first_name/last_name header row
// is skipped.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	result := &Result{}
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		first, last := cell(row, 0), cell(row, 1)
		if first == "" && last == "" {
			continue
		}
		if first == "" || last == "" {
			result.Rejected = append(result.Rejected, i+1)
			continue
		}
		result.Entries = append(result.Entries, Entry{Row: i + 1, FirstName: first, LastName: last})
	}

	return result, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isHeader(row []string) bool {
	return strings.EqualFold(cell(row, 0), "first_name") && strings.EqualFold(cell(row, 1), "last_name")
}
