// Package spreadsheet converts between quote schedule workbooks and typed rows.
package spreadsheet

// QuoteScheduleRow is one line of the quote schedule.
type QuoteScheduleRow struct {
	QuoteNumber   string  `json:"quoteNumber"`
	ClientName    string  `json:"clientName"`
	AgentName     string  `json:"agentName"`
	TourType      string  `json:"tourType"`
	DepartureDate string  `json:"departureDate"`
	ReturnDate    string  `json:"returnDate"`
	PaxCount      int     `json:"paxCount"`
	QuoteDate     string  `json:"quoteDate"`
	ValidUntil    string  `json:"validUntil"`
	Status        string  `json:"status"`
	TotalAmount   float64 `json:"totalAmount"`
	Currency      string  `json:"currency"`
	Consultant    string  `json:"consultant"`
	Notes         string  `json:"notes"`
}

const (
	TourTypeFIT   = "FIT"
	TourTypeGroup = "Group"

	StatusPending          = "Pending"
	StatusConfirmed        = "Confirmed"
	StatusNotAccepted      = "Not Accepted"
	StatusRequoteRequested = "Requote Requested"

	DefaultCurrency = "ZAR"
	SheetName       = "Quote Schedule"

	isoDate = "2006-01-02"
)

// Columns is the exported header, also the positional import order.
var Columns = []string{
	"Quote Number",
	"Client Name",
	"Agent Name",
	"Tour Type",
	"Departure Date",
	"Return Date",
	"Pax Count",
	"Quote Date",
	"Valid Until",
	"Status",
	"Total Amount",
	"Currency",
	"Consultant",
	"Notes",
}

const (
	colQuoteNumber = iota
	colClientName
	colAgentName
	colTourType
	colDepartureDate
	colReturnDate
	colPaxCount
	colQuoteDate
	colValidUntil
	colStatus
	colTotalAmount
	colCurrency
	colConsultant
	colNotes
)

var tourTypes = []string{TourTypeFIT, TourTypeGroup}

var statuses = []string{StatusPending, StatusConfirmed, StatusNotAccepted, StatusRequoteRequested}
