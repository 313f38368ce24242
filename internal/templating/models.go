// Package templating renders operator-authored email templates.
//
// Placeholder syntax is {{name}} for substitution and
// {{#if name}} ... {{/if}} for a conditional block in the body.
package templating

type TemplateType string

const (
	TypeBookingRequest TemplateType = "booking_request"
	TypeConfirmation   TemplateType = "confirmation"
	TypeRelease        TemplateType = "release"
)

func (t TemplateType) Valid() bool {
	switch t {
	case TypeBookingRequest, TypeConfirmation, TypeRelease:
		return true
	}
	return false
}

// TemplateDefinition is a stored email template.
type TemplateDefinition struct {
	ID        string       `json:"id,omitempty"`
	Name      string       `json:"name"`
	Type      TemplateType `json:"type"`
	Subject   string       `json:"subject"`
	Body      string       `json:"body"`
	Variables []string     `json:"variables"`
}

// RenderContext maps variable names to values. It is flat.
type RenderContext map[string]string

type Rendered struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
