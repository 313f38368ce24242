// Package documents renders vouchers, tour manuals and overnight lists as
// plain text. Generators are pure: the same input always yields the same
// bytes, and no input makes them fail.
package documents

// Operator is the letterhead printed on every document.
type Operator struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website,omitempty"`
}

type VoucherData struct {
	Operator         Operator          `json:"operator"`
	ClientName       string            `json:"clientName"`
	BookingReference string            `json:"bookingReference"`
	IssueDate        string            `json:"issueDate,omitempty"`
	Flights          []FlightDeparture `json:"flights"`
	Rooms            []PassengerRoom   `json:"rooms"`
	Accommodations   []Accommodation   `json:"accommodations"`
	Notes            string            `json:"notes,omitempty"`
}

type FlightDeparture struct {
	Date          string `json:"date"`
	Passengers    string `json:"passengers"`
	FlightNumber  string `json:"flightNumber"`
	DepartureTime string `json:"departureTime"`
}

type PassengerRoom struct {
	RoomNumber string `json:"roomNumber"`
	RoomType   string `json:"roomType"`
	Names      string `json:"names"`
}

type Accommodation struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	BookingNumber string `json:"bookingNumber"`
	RoomType      string `json:"roomType"`
	DateIn        string `json:"dateIn"`
	DateOut       string `json:"dateOut"`
	Meals         string `json:"meals"`
	Notes         string `json:"notes,omitempty"`
}

type OvernightList struct {
	TourName string           `json:"tourName"`
	TourCode string           `json:"tourCode"`
	Guide    string           `json:"guide"`
	Entries  []OvernightEntry `json:"entries"`
}

// OvernightEntry is one night of a tour. Meal flags are "0", "1" or "X".
type OvernightEntry struct {
	Day           int    `json:"day"`
	Date          string `json:"date"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Activity      string `json:"activity"`
	Accommodation string `json:"accommodation"`
	Type          string `json:"type"`
	Breakfast     string `json:"breakfast"`
	Lunch         string `json:"lunch"`
	Dinner        string `json:"dinner"`
	Notes         string `json:"notes,omitempty"`
}

type TourManualData struct {
	Operator        Operator            `json:"operator"`
	TourName        string              `json:"tourName"`
	TourCode        string              `json:"tourCode"`
	ClientName      string              `json:"clientName"`
	Guide           string              `json:"guide"`
	StartDate       string              `json:"startDate"`
	EndDate         string              `json:"endDate"`
	PaxCount        int                 `json:"paxCount"`
	Notes           string              `json:"notes,omitempty"`
	Included        string              `json:"included"`
	Excluded        string              `json:"excluded"`
	BorderCrossings string              `json:"borderCrossings"`
	Suppliers       []SupplierReference `json:"suppliers"`
	Itinerary       []ItineraryDay      `json:"itinerary"`
	Rooming         []RoomingEntry      `json:"rooming"`
	Flights         []FlightDetail      `json:"flights"`
}

const (
	SupplierConfirmed = "confirmed"
	SupplierPending   = "pending"
)

type SupplierReference struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type ItineraryDay struct {
	Day           int    `json:"day"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Accommodation string `json:"accommodation"`
	Meals         string `json:"meals"`
}

type RoomingEntry struct {
	RoomType string `json:"roomType"`
	Names    string `json:"names"`
	Notes    string `json:"notes,omitempty"`
}

type FlightDetail struct {
	Date          string `json:"date"`
	FlightNumber  string `json:"flightNumber"`
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
}
