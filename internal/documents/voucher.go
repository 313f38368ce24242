package documents

import (
	"fmt"
	"strings"
)

// GenerateVoucher renders the client service voucher.
func GenerateVoucher(v VoucherData) string {
	var p page

	p.line("SERVICE VOUCHER")
	p.line(rule)
	p.line("Client: " + v.ClientName)
	p.line("Booking Reference: " + v.BookingReference)
	p.optional("Issued: ", formatDate(v.IssueDate, longDate))

	p.section("FLIGHT DEPARTURES", joinBlocks(v.Flights, flightBlock))
	p.section("PASSENGERS AND ROOMS", joinBlocks(v.Rooms, roomBlock))
	p.section("ACCOMMODATION", joinBlocks(v.Accommodations, accommodationBlock))

	if v.Notes != "" {
		p.blank()
		p.line("Notes: " + v.Notes)
	}

	p.blank()
	p.line("Please present this voucher on arrival.")
	operatorFooter(&p, v.Operator)

	return p.String()
}

func flightBlock(f FlightDeparture) string {
	return fmt.Sprintf("%s | Flight %s | Departs %s | Passengers: %s",
		formatDate(f.Date, longDate), f.FlightNumber, f.DepartureTime, f.Passengers)
}

func roomBlock(r PassengerRoom) string {
	return fmt.Sprintf("Room %s (%s): %s", r.RoomNumber, r.RoomType, r.Names)
}

func accommodationBlock(a Accommodation) string {
	lines := []string{
		a.Name,
		"  Address: " + a.Address,
		"  Phone: " + a.Phone,
		"  Booking No: " + a.BookingNumber,
		"  Room Type: " + a.RoomType,
		"  Check-in: " + formatDate(a.DateIn, longDate),
		"  Check-out: " + formatDate(a.DateOut, longDate),
	}
	if n := nights(a.DateIn, a.DateOut); n >= 0 {
		lines = append(lines, fmt.Sprintf("  Nights: %d", n))
	}
	lines = append(lines, "  Meals: "+a.Meals)
	if a.Notes != "" {
		lines = append(lines, "  Notes: "+a.Notes)
	}
	return strings.Join(lines, "\n")
}
