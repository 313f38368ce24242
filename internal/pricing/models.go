// Package pricing computes quote totals from quote templates.
package pricing

import "github.com/shopspring/decimal"

// QuoteTemplate is a reusable costing for a tour.
type QuoteTemplate struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name"`
	TourType string            `json:"tourType"`
	Duration int               `json:"duration"` // days
	Services []TemplateService `json:"services"`
	Formulas []PricingRule     `json:"formulas"`
}

type TemplateService struct {
	ServiceType string          `json:"serviceType"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	Currency    string          `json:"currency"`
	Formula     string          `json:"formula"` // display only
}

// PricingRule is matched by Name. Formula is descriptive text only.
type PricingRule struct {
	Name        string `json:"name"`
	Formula     string `json:"formula"`
	Description string `json:"description"`
}

// Breakdown explains how a total was reached.
type Breakdown struct {
	PaxCount     int             `json:"paxCount"`
	Season       string          `json:"season"`
	Duration     int             `json:"duration"`
	Currency     string          `json:"currency,omitempty"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Markup       decimal.Decimal `json:"markup"`
	Total        decimal.Decimal `json:"total"`
	AppliedRules []string        `json:"appliedRules"`
}

const (
	RuleGroupDiscount  = "Group Discount"
	RuleSeasonalMarkup = "Seasonal Markup"

	SeasonPeak = "Peak"

	GroupDiscountMinPax = 10
)

var (
	groupDiscountRate  = decimal.NewFromFloat(0.10)
	seasonalMarkupRate = decimal.NewFromFloat(0.20)
)
