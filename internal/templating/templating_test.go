package templating

import (
	"testing"

	apperrors "tour-backoffice/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest() TemplateDefinition {
	return TemplateDefinition{
		Name:      "Lodge booking request",
		Type:      TypeBookingRequest,
		Subject:   "Booking request {{reference}} for {{clientName}}",
		Body:      "Dear {{supplierName}},\n\nPlease book {{pax}} pax.{{#if notes}}\nNotes: {{notes}}{{/if}}\n\nRegards",
		Variables: []string{"reference", "clientName", "supplierName", "pax", "notes"},
	}
}

// ==========================
// Render
// ==========================

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		tpl         TemplateDefinition
		ctx         RenderContext
		wantSubject string
		wantBody    string
	}{
		{
			name:        "greeting with empty note",
			tpl:         TemplateDefinition{Subject: "Hi {{name}}", Body: "{{#if note}}Note: {{note}}{{/if}}", Variables: []string{"name", "note"}},
			ctx:         RenderContext{"name": "Nomad", "note": ""},
			wantSubject: "Hi Nomad",
			wantBody:    "",
		},
		{
			name:     "only truthy block kept",
			tpl:      TemplateDefinition{Body: "{{#if a}}A{{/if}}{{#if b}}B{{/if}}"},
			ctx:      RenderContext{"a": "", "b": "x"},
			wantBody: "B",
		},
		{
			name:     "falsy spellings",
			tpl:      TemplateDefinition{Body: "{{#if z}}Z{{/if}}{{#if f}}F{{/if}}{{#if m}}M{{/if}}{{#if t}}T{{/if}}"},
			ctx:      RenderContext{"z": "0", "f": "false", "t": "yes"},
			wantBody: "T",
		},
		{
			name:     "replacement is global",
			tpl:      TemplateDefinition{Body: "{{x}}-{{x}}-{{x}}"},
			ctx:      RenderContext{"x": "ab"},
			wantBody: "ab-ab-ab",
		},
		{
			name:     "case sensitive and no whitespace tolerance",
			tpl:      TemplateDefinition{Body: "{{Name}} {{ name }} {{name}}"},
			ctx:      RenderContext{"name": "n"},
			wantBody: "{{Name}} {{ name }} n",
		},
		{
			name:     "undeclared missing variable kept verbatim",
			tpl:      TemplateDefinition{Body: "Ref {{reference}}"},
			ctx:      RenderContext{},
			wantBody: "Ref {{reference}}",
		},
		{
			name:     "declared missing variable renders empty",
			tpl:      TemplateDefinition{Body: "Ref [{{reference}}]", Variables: []string{"reference"}},
			ctx:      RenderContext{},
			wantBody: "Ref []",
		},
		{
			name:        "subject does not evaluate conditionals",
			tpl:         TemplateDefinition{Subject: "{{#if vip}}VIP {{/if}}{{name}}"},
			ctx:         RenderContext{"vip": "", "name": "Ana"},
			wantSubject: "{{#if vip}}VIP {{/if}}Ana",
		},
		{
			name:     "unterminated if emitted verbatim with inner substitution",
			tpl:      TemplateDefinition{Body: "A {{#if x}}B {{y}}"},
			ctx:      RenderContext{"y": "why"},
			wantBody: "A {{#if x}}B why",
		},
		{
			name:     "stray endif emitted verbatim",
			tpl:      TemplateDefinition{Body: "done{{/if}}"},
			ctx:      RenderContext{},
			wantBody: "done{{/if}}",
		},
		{
			name:     "nested conditionals",
			tpl:      TemplateDefinition{Body: "{{#if a}}[{{#if b}}B{{/if}}{{#if c}}C{{/if}}]{{/if}}"},
			ctx:      RenderContext{"a": "1", "c": "1"},
			wantBody: "[C]",
		},
		{
			name:     "substituted values are not re-parsed",
			tpl:      TemplateDefinition{Body: "{{a}}"},
			ctx:      RenderContext{"a": "{{b}}", "b": "nope"},
			wantBody: "{{b}}",
		},
		{
			name:     "extra brace before tag",
			tpl:      TemplateDefinition{Body: "{{{x}}}"},
			ctx:      RenderContext{"x": "v"},
			wantBody: "{v}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.tpl, tt.ctx)
			assert.Equal(t, tt.wantSubject, got.Subject)
			assert.Equal(t, tt.wantBody, got.Body)
		})
	}
}

func TestRender_BookingRequest(t *testing.T) {
	ctx := RenderContext{
		"reference":    "BK-1042",
		"clientName":   "Jane Smith",
		"supplierName": "Etosha Lodge",
		"pax":          "2",
		"notes":        "Late arrival",
	}

	got := Render(bookingRequest(), ctx)
	assert.Equal(t, "Booking request BK-1042 for Jane Smith", got.Subject)
	assert.Equal(t, "Dear Etosha Lodge,\n\nPlease book 2 pax.\nNotes: Late arrival\n\nRegards", got.Body)

	delete(ctx, "notes")
	got = Render(bookingRequest(), ctx)
	assert.Equal(t, "Dear Etosha Lodge,\n\nPlease book 2 pax.\n\nRegards", got.Body)
}

func TestRender_Idempotent(t *testing.T) {
	tpl := bookingRequest()
	ctx := RenderContext{"reference": "R", "clientName": "C", "supplierName": "S", "pax": "4"}
	assert.Equal(t, Render(tpl, ctx), Render(tpl, ctx))
}

// ==========================
// Parse / Placeholders
// ==========================

func TestParse_Tree(t *testing.T) {
	root := Parse("Hi {{name}}{{#if vip}}!{{/if}}", ParseOptions{Conditionals: true})
	require.Len(t, root.Children, 3)
	assert.Equal(t, NodeText, root.Children[0].Kind)
	assert.Equal(t, "Hi ", root.Children[0].Text)
	assert.Equal(t, NodeVariable, root.Children[1].Kind)
	assert.Equal(t, "name", root.Children[1].Name)
	assert.Equal(t, NodeIf, root.Children[2].Kind)
	assert.Equal(t, "vip", root.Children[2].Name)
	require.Len(t, root.Children[2].Children, 1)
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("{{b}} {{a}} {{#if c}}{{b}}{{d}}{{/if}} {{ e }}")
	assert.Equal(t, []string{"b", "a", "c", "d"}, names)
	assert.Empty(t, Placeholders("no tags here"))
}

// ==========================
// Validate / Normalize
// ==========================

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(bookingRequest()))

	tpl := bookingRequest()
	tpl.Variables = []string{"reference"}
	err := Validate(tpl)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTemplateValidationFailed))
	assert.Contains(t, err.Error(), "clientName")

	tpl = bookingRequest()
	tpl.Type = "newsletter"
	err = Validate(tpl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newsletter")

	tpl = bookingRequest()
	tpl.Name = " "
	assert.Error(t, Validate(tpl))
}

func TestNormalize_FillsVariables(t *testing.T) {
	tpl := bookingRequest()
	tpl.Variables = nil

	normalized := Normalize(tpl)
	assert.Equal(t, []string{"reference", "clientName", "supplierName", "pax", "notes"}, normalized.Variables)
	assert.NoError(t, Validate(normalized))

	empty := Normalize(TemplateDefinition{Name: "x", Type: TypeRelease})
	assert.NotNil(t, empty.Variables)
	assert.Empty(t, empty.Variables)
}

func TestTemplateType_Valid(t *testing.T) {
	assert.True(t, TypeConfirmation.Valid())
	assert.False(t, TemplateType("BOOKING_REQUEST").Valid())
}
