package api

import (
	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/models"
	"tour-backoffice/internal/pricing"
	"tour-backoffice/internal/store"
	"tour-backoffice/internal/templating"
)

// WriteHooks returns the record service options that check templates and
// quote templates before they are stored.
func WriteHooks() []store.ServiceOption {
	return []store.ServiceOption{
		store.WithHook(models.ResourceTemplates, templateHook),
		store.WithHook(models.ResourceQuoteTemplates, quoteTemplateHook),
	}
}

// templateHook fills in declared variables and rejects templates that use
// undeclared ones.
func templateHook(data map[string]interface{}) (map[string]interface{}, error) {
	var tpl templating.TemplateDefinition
	if err := decodeInto(data, &tpl); err != nil {
		return nil, apperrors.NewTemplateValidationFailedError(err.Error())
	}
	tpl = templating.Normalize(tpl)
	if err := templating.Validate(tpl); err != nil {
		return nil, err
	}

	out := copyData(data)
	vars := make([]interface{}, len(tpl.Variables))
	for i, v := range tpl.Variables {
		vars[i] = v
	}
	out["variables"] = vars
	return out, nil
}

func quoteTemplateHook(data map[string]interface{}) (map[string]interface{}, error) {
	var tpl pricing.QuoteTemplate
	if err := decodeInto(data, &tpl); err != nil {
		return nil, apperrors.NewValidationError("quote template: " + err.Error())
	}
	if _, err := pricing.PriceTemplate(tpl, 0, ""); err != nil {
		return nil, err
	}
	return data, nil
}

func decodeInto(data map[string]interface{}, v interface{}) error {
	return store.Record{Data: data}.Decode(v)
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
