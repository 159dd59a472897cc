package tuition

import (
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of the spreadsheets WriteXLSX produces.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultSheet = "Sheet1"
	// built-in "#,##0" number format
	thousandsNumFmt = 3
)

var tableHeaders = []string{"Income", "Tuition", "Formatted"}

// WriteXLSX writes brackets as a spreadsheet with a single sheet named sheet.
func WriteXLSX(w io.Writer, sheet string, brackets []Bracket) (err error) {
	if sheet == "" {
		sheet = "Tuition"
	}

	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if sheet != defaultSheet {
		if err = f.DeleteSheet(defaultSheet); err != nil {
			return err
		}
	}

	for i, header := range tableHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err = f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for i, b := range brackets {
		row := i + 2
		values := []interface{}{b.Income, b.Tuition, b.Formatted}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err = f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if len(brackets) > 0 {
		style, err := f.NewStyle(&excelize.Style{NumFmt: thousandsNumFmt})
		if err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(2, len(brackets)+1)
		if err = f.SetCellStyle(sheet, "A2", last, style); err != nil {
			return err
		}
	}
	if err = f.SetColWidth(sheet, "A", "C", 16); err != nil {
		return err
	}
	return f.Write(w)
}
