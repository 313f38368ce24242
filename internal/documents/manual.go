package documents

import (
	"fmt"
	"strings"
)

// GenerateTourManual renders the guide's tour manual.
func GenerateTourManual(m TourManualData) string {
	var p page

	p.line("TOUR MANUAL")
	p.line(fmt.Sprintf("%s (%s)", m.TourName, m.TourCode))
	p.line(rule)
	p.optional("Client: ", m.ClientName)
	p.line("Guide: " + m.Guide)
	p.line(fmt.Sprintf("Dates: %s - %s", formatDate(m.StartDate, longDate), formatDate(m.EndDate, longDate)))
	p.line(fmt.Sprintf("Passengers: %d", m.PaxCount))

	p.section("ITINERARY", joinBlocks(m.Itinerary, itineraryBlock))
	p.section("FLIGHTS", joinBlocks(m.Flights, flightDetailBlock))
	p.section("ROOMING LIST", joinBlocks(m.Rooming, roomingBlock))
	p.section("SUPPLIERS", joinBlocks(m.Suppliers, supplierBlock))
	p.section("INCLUDED", m.Included)
	p.section("EXCLUDED", m.Excluded)
	p.section("BORDER CROSSINGS", m.BorderCrossings)
	if m.Notes != "" {
		p.section("NOTES", m.Notes)
	}

	p.blank()
	operatorFooter(&p, m.Operator)

	return p.String()
}

func itineraryBlock(d ItineraryDay) string {
	lines := []string{
		fmt.Sprintf("Day %d - %s: %s", d.Day, formatDate(d.Date, longDate), d.Title),
	}
	if d.Description != "" {
		lines = append(lines, "  "+d.Description)
	}
	lines = append(lines,
		"  Overnight: "+d.Accommodation,
		"  Meals: "+d.Meals,
	)
	return strings.Join(lines, "\n")
}

func flightDetailBlock(f FlightDetail) string {
	return fmt.Sprintf("%s %s %s -> %s dep %s arr %s",
		formatDate(f.Date, longDate), f.FlightNumber, f.From, f.To, f.DepartureTime, f.ArrivalTime)
}

func roomingBlock(r RoomingEntry) string {
	s := fmt.Sprintf("%s: %s", r.RoomType, r.Names)
	if r.Notes != "" {
		s += " (" + r.Notes + ")"
	}
	return s
}

func supplierBlock(s SupplierReference) string {
	status := strings.ToUpper(strings.TrimSpace(s.Status))
	if status == "" {
		status = strings.ToUpper(SupplierPending)
	}
	line := fmt.Sprintf("[%s] %s", status, s.Name)
	if s.Reference != "" {
		line += " - Ref: " + s.Reference
	}
	if s.Notes != "" {
		line += "\n  Notes: " + s.Notes
	}
	return line
}
