package spreadsheet

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateColumns = map[int]bool{
	colDepartureDate: true,
	colReturnDate:    true,
	colQuoteDate:     true,
	colValidUntil:    true,
}

// Render writes rows to a single-sheet workbook named "Quote Schedule".
// ISO dates from 1900-03-01 on are stored as Excel dates formatted
// yyyy-mm-dd; others are written as text. Pax count and total amount are stored as numbers.
func Render(rows []QuoteScheduleRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, name := range Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	dateFmt := "yyyy-mm-dd"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("create date style: %w", err)
	}

	for i, row := range rows {
		cells := rowCells(row)
		rowNum := i + 2

		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, start, &cells); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowNum, err)
		}

		for col := range dateColumns {
			if _, ok := cells[col].(time.Time); !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellStyle(SheetName, cell, cell, dateStyle); err != nil {
				return nil, fmt.Errorf("style %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func rowCells(row QuoteScheduleRow) []interface{} {
	return []interface{}{
		row.QuoteNumber,
		row.ClientName,
		row.AgentName,
		row.TourType,
		dateCell(row.DepartureDate),
		dateCell(row.ReturnDate),
		row.PaxCount,
		dateCell(row.QuoteDate),
		dateCell(row.ValidUntil),
		row.Status,
		row.TotalAmount,
		row.Currency,
		row.Consultant,
		row.Notes,
	}
}

// Excel serials treat 1900 as a leap year, so days before 1 March 1900 do not
// convert back to the same date. Those stay text.
var firstSerialDate = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)

func dateCell(value string) interface{} {
	if value == "" {
		return ""
	}
	if t, err := time.Parse(isoDate, value); err == nil && !t.Before(firstSerialDate) {
		return t
	}
	return value
}
