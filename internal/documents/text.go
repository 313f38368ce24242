package documents

import (
	"strings"
	"time"
)

const (
	longDate  = "2 January 2006"
	shortDate = "2-Jan-06"
	rule      = "=================================================="
)

var inputDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2/1/2006",
	"02/01/2006",
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range inputDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// formatDate renders value in layout, or returns it unchanged when it
// does not parse.
func formatDate(value, layout string) string {
	if t, ok := parseDate(value); ok {
		return t.Format(layout)
	}
	return value
}

// nights counts the nights between two dates, or -1 when unknown.
func nights(dateIn, dateOut string) int {
	in, ok1 := parseDate(dateIn)
	out, ok2 := parseDate(dateOut)
	if !ok1 || !ok2 || !out.After(in) {
		return -1
	}
	return int(out.Sub(in).Hours() / 24)
}

// page accumulates document lines.
type page struct {
	lines []string
}

func (p *page) line(s string) {
	p.lines = append(p.lines, s)
}

func (p *page) blank() {
	p.lines = append(p.lines, "")
}

// optional writes label+value only when value is non-empty.
func (p *page) optional(label, value string) {
	if value != "" {
		p.lines = append(p.lines, label+value)
	}
}

// section writes a heading followed by body, which may be empty.
func (p *page) section(title, body string) {
	p.blank()
	p.line(title)
	if body != "" {
		p.line(body)
	}
}

func (p *page) String() string {
	return strings.Join(p.lines, "\n")
}

// joinBlocks maps items to text blocks joined by a single newline.
func joinBlocks[T any](items []T, block func(T) string) string {
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = block(item)
	}
	return strings.Join(parts, "\n")
}

func operatorFooter(p *page, op Operator) {
	p.line(rule)
	p.line(op.Name)
	contact := make([]string, 0, 2)
	if op.Phone != "" {
		contact = append(contact, "Tel: "+op.Phone)
	}
	if op.Email != "" {
		contact = append(contact, "Email: "+op.Email)
	}
	if len(contact) > 0 {
		p.line(strings.Join(contact, " | "))
	}
	p.optional("Website: ", op.Website)
}
