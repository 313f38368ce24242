package store

import (
	"fmt"
	"strings"

	apperrors "tour-backoffice/internal/common/errors"
	"tour-backoffice/internal/common/validation"
	"tour-backoffice/internal/models"
)

type jsonObject = map[string]interface{}

var (
	str        = jsonObject{"type": "string"}
	date       = jsonObject{"type": "string", "maxLength": 40}
	name       = jsonObject{"type": "string", "minLength": 1}
	email      = jsonObject{"type": "string", "anyOf": []interface{}{jsonObject{"format": "email"}, jsonObject{"maxLength": 0}}}
	nonNegInt  = jsonObject{"type": "integer", "minimum": 0}
	nonNegNum  = jsonObject{"type": "number", "minimum": 0}
	amount     = jsonObject{"type": []string{"number", "string"}}
	mealFlag   = jsonObject{"type": "string", "enum": []string{"0", "1", "X", ""}}
	stringList = jsonObject{"type": "array", "items": str}
)

func object(required []string, props jsonObject) jsonObject {
	schema := jsonObject{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func arrayOf(item jsonObject) jsonObject {
	return jsonObject{"type": "array", "items": item}
}

// Fields not listed are allowed: records are open documents and the UI
// adds columns over time.
var resourceSchemas = map[models.Resource]jsonObject{
	models.ResourceSuppliers: object([]string{"name"}, jsonObject{
		"name":          name,
		"type":          str,
		"contactPerson": str,
		"email":         email,
		"phone":         str,
		"location":      str,
		"country":       str,
	}),
	models.ResourceRates: object([]string{"supplierId", "rateName"}, jsonObject{
		"supplierId":  name,
		"rateName":    name,
		"season":      str,
		"roomType":    str,
		"basis":       str,
		"validFrom":   date,
		"validTo":     date,
		"costPrice":   nonNegNum,
		"sellPrice":   nonNegNum,
		"currency":    str,
		"childPolicy": str,
	}),
	models.ResourceTours: object([]string{"name"}, jsonObject{
		"name":      name,
		"code":      str,
		"tourType":  jsonObject{"type": "string", "enum": []string{"FIT", "Group"}},
		"startDate": date,
		"endDate":   date,
		"duration":  nonNegInt,
		"paxCount":  nonNegInt,
		"guide":     str,
	}),
	models.ResourceBookings: object([]string{"clientName"}, jsonObject{
		"clientName":       name,
		"bookingReference": str,
		"tourId":           str,
		"agentId":          str,
		"paxCount":         nonNegInt,
		"status":           str,
		"startDate":        date,
		"endDate":          date,
	}),
	models.ResourceAgents: object([]string{"name"}, jsonObject{
		"name":           name,
		"company":        str,
		"email":          email,
		"phone":          str,
		"commissionRate": jsonObject{"type": "number", "minimum": 0, "maximum": 100},
	}),
	models.ResourceQuotes: object([]string{"clientName"}, jsonObject{
		"quoteNumber": str,
		"clientName":  name,
		"agentId":     str,
		"paxCount":    nonNegInt,
		"totalAmount": nonNegNum,
		"currency":    str,
		"validUntil":  date,
	}),
	models.ResourceInvoices: object([]string{"invoiceNumber"}, jsonObject{
		"invoiceNumber": name,
		"bookingId":     str,
		"amount":        nonNegNum,
		"currency":      str,
		"dueDate":       date,
		"status":        jsonObject{"type": "string", "enum": []string{"draft", "sent", "paid", "overdue", "cancelled"}},
	}),
	models.ResourceChecklists: object([]string{"title"}, jsonObject{
		"title":     name,
		"bookingId": str,
		"items": arrayOf(object([]string{"label"}, jsonObject{
			"label": name,
			"done":  jsonObject{"type": "boolean"},
		})),
	}),
	models.ResourceOvernightLists: object([]string{"tourName"}, jsonObject{
		"tourName": name,
		"tourCode": str,
		"guide":    str,
		"entries": arrayOf(object([]string{"day"}, jsonObject{
			"day":           nonNegInt,
			"date":          date,
			"start":         str,
			"end":           str,
			"activity":      str,
			"accommodation": str,
			"type":          str,
			"breakfast":     mealFlag,
			"lunch":         mealFlag,
			"dinner":        mealFlag,
			"notes":         str,
		})),
	}),
	models.ResourceTemplates: object([]string{"name", "type", "subject", "body"}, jsonObject{
		"name":      name,
		"type":      jsonObject{"type": "string", "enum": []string{"booking_request", "confirmation", "release"}},
		"subject":   str,
		"body":      str,
		"variables": stringList,
	}),
	models.ResourceQuoteTemplates: object([]string{"name", "duration", "services"}, jsonObject{
		"name":     name,
		"tourType": str,
		"duration": nonNegInt,
		"services": arrayOf(object([]string{"serviceType", "basePrice"}, jsonObject{
			"serviceType": name,
			"basePrice":   amount,
			"currency":    str,
			"formula":     str,
		})),
		"formulas": arrayOf(object([]string{"name"}, jsonObject{
			"name":        name,
			"formula":     str,
			"description": str,
		})),
	}),
	models.ResourceQuoteSchedule: object([]string{"quoteNumber"}, jsonObject{
		"quoteNumber":   str,
		"clientName":    str,
		"tourType":      jsonObject{"type": "string", "enum": []string{"FIT", "Group"}},
		"departureDate": date,
		"returnDate":    date,
		"paxCount":      jsonObject{"type": "integer"},
		"status":        jsonObject{"type": "string", "enum": []string{"Pending", "Confirmed", "Not Accepted", "Requote Requested"}},
		"totalAmount":   jsonObject{"type": "number"},
		"currency":      str,
	}),
}

// Schemas validates record payloads per resource.
type Schemas struct {
	compiled map[models.Resource]*validation.Schema
}

func NewSchemas() *Schemas {
	compiled := make(map[models.Resource]*validation.Schema, len(resourceSchemas))
	for resource, doc := range resourceSchemas {
		compiled[resource] = validation.MustCompile(doc)
	}
	return &Schemas{compiled: compiled}
}

// Validate returns VALIDATION_FAILED listing every violation.
func (s *Schemas) Validate(resource models.Resource, data map[string]interface{}) error {
	schema, ok := s.compiled[resource]
	if !ok {
		return nil
	}
	result, err := schema.Validate(data)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if result.Valid {
		return nil
	}
	return apperrors.NewValidationError(fmt.Sprintf("invalid %s: %s", resource, strings.Join(result.GetErrorMessages(), "; "))).
		WithMetadata("errors", result.Errors)
}
