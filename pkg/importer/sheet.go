package importer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: only .xlsx workbooks are accepted")
	ErrUnreadable        = errors.New("file is not a readable spreadsheet")
	ErrEmptySheet        = errors.New("spreadsheet contains no data rows")
)

var supportedExt = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Sheet is the first worksheet of an uploaded workbook: a header row and the
// non-empty data rows below it, keyed by normalized column name.
type Sheet struct {
	Header []string
	Rows   []SheetRow
}

// SheetRow keeps the 1-based line number the row had in the workbook.
type SheetRow struct {
	Line  int
	Cells map[string]string
}

// ParseSheet reads the first worksheet of an Excel workbook. The first
// non-empty row is the header; fully empty rows are skipped. A sheet with a
// header and no data rows is returned as is so the header can still be
// checked; only a sheet without any non-empty row is ErrEmptySheet.
func ParseSheet(filename string, data []byte) (Sheet, error) {
	if !supportedExt[strings.ToLower(filepath.Ext(filename))] {
		return Sheet{}, ErrUnsupportedFormat
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return Sheet{}, ErrEmptySheet
	}
	rows, err := f.GetRows(names[0])
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var sheet Sheet
	headerSeen := false
	for i, cells := range rows {
		if blank(cells) {
			continue
		}
		if !headerSeen {
			for _, c := range cells {
				sheet.Header = append(sheet.Header, normalizeColumn(c))
			}
			headerSeen = true
			continue
		}
		row := SheetRow{Line: i + 1, Cells: make(map[string]string, len(sheet.Header))}
		for j, col := range sheet.Header {
			if col == "" || j >= len(cells) {
				continue
			}
			row.Cells[col] = cells[j]
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	if !headerSeen {
		return Sheet{}, ErrEmptySheet
	}
	return sheet, nil
}

func normalizeColumn(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
