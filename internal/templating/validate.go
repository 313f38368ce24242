package templating

import (
	"fmt"
	"strings"

	apperrors "tour-backoffice/internal/common/errors"
)

// Normalize fills an empty variable list from the placeholders in the
// subject and body.
func Normalize(tpl TemplateDefinition) TemplateDefinition {
	if len(tpl.Variables) == 0 {
		tpl.Variables = TemplatePlaceholders(tpl)
	}
	return tpl
}

// TemplatePlaceholders lists names used by the subject then the body.
func TemplatePlaceholders(tpl TemplateDefinition) []string {
	names := placeholders(tpl.Subject, ParseOptions{})
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, n := range Placeholders(tpl.Body) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	if names == nil {
		names = []string{}
	}
	return names
}

// Validate checks the type and that every placeholder is declared.
func Validate(tpl TemplateDefinition) error {
	var problems []string

	if strings.TrimSpace(tpl.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !tpl.Type.Valid() {
		problems = append(problems, fmt.Sprintf("type %q must be one of %s, %s, %s",
			tpl.Type, TypeBookingRequest, TypeConfirmation, TypeRelease))
	}

	declared := make(map[string]bool, len(tpl.Variables))
	for _, v := range tpl.Variables {
		declared[v] = true
	}
	var undeclared []string
	for _, name := range TemplatePlaceholders(tpl) {
		if !declared[name] {
			undeclared = append(undeclared, name)
		}
	}
	if len(undeclared) > 0 {
		problems = append(problems, "undeclared variables: "+strings.Join(undeclared, ", "))
	}

	if len(problems) > 0 {
		return apperrors.NewTemplateValidationFailedError(strings.Join(problems, "; "))
	}
	return nil
}
