package spreadsheet

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "tour-backoffice/internal/common/errors"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// OLE2 compound document signature used by legacy .xls workbooks.
var ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Parse reads the first sheet of an .xlsx or .xls workbook into quote
// schedule rows. Row 0 is the header. The import is all-or-nothing: the first
// row that cannot be mapped aborts it with a ROW_PARSE_ERROR.
func Parse(data []byte) ([]QuoteScheduleRow, error) {
	rows, err := readRows(data)
	if err != nil {
		return nil, apperrors.NewParseError(err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParseError(fmt.Errorf("worksheet is empty"))
	}

	index := columnIndex(rows[0])

	out := make([]QuoteScheduleRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		row, err := mapRow(rows[i], index)
		if err != nil {
			return nil, apperrors.NewRowParseError(i, err.Error())
		}
		out = append(out, row)
	}
	return out, nil
}

func readRows(data []byte) ([][]string, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("file is empty")
	}
	if bytes.HasPrefix(data, ole2Magic) {
		return readXLSRows(data)
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no worksheet found")
	}

	// Raw values keep date cells as serials and amounts unformatted.
	return file.GetRows(sheetName, excelize.Options{RawCellValue: true})
}

func readXLSRows(data []byte) (rows [][]string, err error) {
	// extrame/xls panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("unreadable xls workbook: %v", r)
		}
	}()

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found")
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no worksheet found")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), ""))
}

// columnIndex resolves field positions from the header. When the header does
// not name every column the fixed positional order is used instead.
func columnIndex(header []string) []int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		if key := normalizeHeader(h); key != "" {
			if _, seen := byName[key]; !seen {
				byName[key] = i
			}
		}
	}

	index := make([]int, len(Columns))
	for field, name := range Columns {
		pos, ok := byName[normalizeHeader(name)]
		if !ok {
			for i := range index {
				index[i] = i
			}
			return index
		}
		index[field] = pos
	}
	return index
}

// cellValue returns the cell verbatim. Callers that coerce the value trim it
// themselves; free-text fields keep their whitespace.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func mapRow(cells []string, index []int) (QuoteScheduleRow, error) {
	get := func(field int) string { return cellValue(cells, index[field]) }
	trimmed := func(field int) string { return strings.TrimSpace(get(field)) }

	tourType, err := oneOf(trimmed(colTourType), TourTypeFIT, tourTypes)
	if err != nil {
		return QuoteScheduleRow{}, fmt.Errorf("tour type: %w", err)
	}
	status, err := oneOf(trimmed(colStatus), StatusPending, statuses)
	if err != nil {
		return QuoteScheduleRow{}, fmt.Errorf("status: %w", err)
	}

	currency := get(colCurrency)
	if strings.TrimSpace(currency) == "" {
		currency = DefaultCurrency
	}

	return QuoteScheduleRow{
		QuoteNumber:   get(colQuoteNumber),
		ClientName:    get(colClientName),
		AgentName:     get(colAgentName),
		TourType:      tourType,
		DepartureDate: normalizeDate(trimmed(colDepartureDate)),
		ReturnDate:    normalizeDate(trimmed(colReturnDate)),
		PaxCount:      parseInt(trimmed(colPaxCount)),
		QuoteDate:     normalizeDate(trimmed(colQuoteDate)),
		ValidUntil:    normalizeDate(trimmed(colValidUntil)),
		Status:        status,
		TotalAmount:   parseAmount(trimmed(colTotalAmount)),
		Currency:      currency,
		Consultant:    get(colConsultant),
		Notes:         get(colNotes),
	}, nil
}

// oneOf matches value case-insensitively against allowed and returns the
// canonical spelling. Empty values take the default.
func oneOf(value, def string, allowed []string) (string, error) {
	if value == "" {
		return def, nil
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q is not one of %s", value, strings.Join(allowed, ", "))
}

// 9999-12-31
const maxExcelSerial = 2958465

var dateFormats = []string{
	isoDate,
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
	"2-1-2006",
	"02-01-2006",
	"2 Jan 2006",
	"2 January 2006",
	"2-Jan-06",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// normalizeDate renders a cell as YYYY-MM-DD. Excel serials and the office
// string formats above are accepted; anything else becomes "".
func normalizeDate(value string) string {
	if value == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if !finite(serial) || serial <= 0 || serial > maxExcelSerial {
			return ""
		}
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed.Format(isoDate)
		}
		return ""
	}

	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed.Format(isoDate)
		}
	}
	return ""
}

func parseInt(value string) int {
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && finite(f) {
		return int(f)
	}
	return 0
}

func parseAmount(value string) float64 {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(value)
	if cleaned == "" {
		return 0
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !finite(f) {
		return 0
	}
	return f
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
