package documents

import (
	"fmt"
	"sort"
	"strings"

	apperrors "tour-backoffice/internal/common/errors"
)

const overnightHeader = "Day | Date | Start | End | Activity | Accommodation | Type | B | L | D"

// GenerateOvernightList renders the overnight list. Entries are printed in
// day order; an empty list yields only the header and footer.
func GenerateOvernightList(list OvernightList) string {
	var p page

	p.line("OVERNIGHT LIST")
	p.line(fmt.Sprintf("Tour: %s (%s)", list.TourName, list.TourCode))
	p.line("Guide: " + list.Guide)
	p.line(rule)
	p.line(overnightHeader)

	entries := make([]OvernightEntry, len(list.Entries))
	copy(entries, list.Entries)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Day < entries[j].Day })

	if body := joinBlocks(entries, overnightLine); body != "" {
		p.line(body)
	}

	b, l, d := mealCounts(entries)
	p.line(rule)
	p.line(fmt.Sprintf("Nights: %d", len(entries)))
	p.line(fmt.Sprintf("Meals included: B %d, L %d, D %d", b, l, d))

	return p.String()
}

func overnightLine(e OvernightEntry) string {
	line := strings.Join([]string{
		fmt.Sprintf("%d", e.Day),
		formatDate(e.Date, shortDate),
		e.Start,
		e.End,
		e.Activity,
		e.Accommodation,
		e.Type,
		e.Breakfast,
		e.Lunch,
		e.Dinner,
	}, " | ")
	if e.Notes != "" {
		line += " | Notes: " + e.Notes
	}
	return line
}

func mealCounts(entries []OvernightEntry) (b, l, d int) {
	for _, e := range entries {
		if e.Breakfast == "1" {
			b++
		}
		if e.Lunch == "1" {
			l++
		}
		if e.Dinner == "1" {
			d++
		}
	}
	return b, l, d
}

// Renumber returns a copy of entries with day set to its position.
func Renumber(entries []OvernightEntry) []OvernightEntry {
	out := make([]OvernightEntry, len(entries))
	for i, e := range entries {
		e.Day = i
		out[i] = e
	}
	return out
}

// RemoveEntry drops the entry at index k and renumbers the rest so days
// stay dense from 0. The input slice is not modified.
func RemoveEntry(entries []OvernightEntry, k int) ([]OvernightEntry, error) {
	if k < 0 || k >= len(entries) {
		return nil, apperrors.NewInvalidArgumentError("index",
			fmt.Sprintf("entry %d does not exist in a list of %d", k, len(entries)))
	}
	rest := make([]OvernightEntry, 0, len(entries)-1)
	rest = append(rest, entries[:k]...)
	rest = append(rest, entries[k+1:]...)
	return Renumber(rest), nil
}

// AppendEntry adds e as the last day.
func AppendEntry(entries []OvernightEntry, e OvernightEntry) []OvernightEntry {
	out := make([]OvernightEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, e)
	return Renumber(out)
}
