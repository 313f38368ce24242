package pricing

import (
	"fmt"

	apperrors "tour-backoffice/internal/common/errors"

	"github.com/shopspring/decimal"
)

// PriceTemplate returns the total for paxCount travellers in season.
func PriceTemplate(tpl QuoteTemplate, paxCount int, season string) (decimal.Decimal, error) {
	b, err := Quote(tpl, paxCount, season)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Total, nil
}

// Quote prices tpl. The subtotal is the sum of base price x pax x duration
// over all services. A "Group Discount" rule takes 10% off from 10 pax, then
// a "Seasonal Markup" rule adds 20% of the discounted total in Peak season.
func Quote(tpl QuoteTemplate, paxCount int, season string) (*Breakdown, error) {
	if err := checkInputs(tpl, paxCount); err != nil {
		return nil, err
	}

	pax := decimal.NewFromInt(int64(paxCount))
	days := decimal.NewFromInt(int64(tpl.Duration))

	subtotal := decimal.Zero
	currency := ""
	for _, svc := range tpl.Services {
		subtotal = subtotal.Add(svc.BasePrice.Mul(pax).Mul(days))
		if currency == "" {
			currency = svc.Currency
		}
	}

	b := &Breakdown{
		PaxCount:     paxCount,
		Season:       season,
		Duration:     tpl.Duration,
		Currency:     currency,
		Subtotal:     subtotal,
		Discount:     decimal.Zero,
		Markup:       decimal.Zero,
		AppliedRules: []string{},
	}

	total := subtotal
	if hasRule(tpl, RuleGroupDiscount) && paxCount >= GroupDiscountMinPax {
		b.Discount = total.Mul(groupDiscountRate)
		total = total.Sub(b.Discount)
		b.AppliedRules = append(b.AppliedRules, RuleGroupDiscount)
	}
	if hasRule(tpl, RuleSeasonalMarkup) && season == SeasonPeak {
		b.Markup = total.Mul(seasonalMarkupRate)
		total = total.Add(b.Markup)
		b.AppliedRules = append(b.AppliedRules, RuleSeasonalMarkup)
	}
	b.Total = total

	return b, nil
}

func checkInputs(tpl QuoteTemplate, paxCount int) error {
	if paxCount < 0 {
		return apperrors.NewInvalidArgumentError("paxCount", fmt.Sprintf("must not be negative, got %d", paxCount))
	}
	if tpl.Duration < 0 {
		return apperrors.NewInvalidArgumentError("duration", fmt.Sprintf("must not be negative, got %d", tpl.Duration))
	}
	for i, svc := range tpl.Services {
		if svc.BasePrice.IsNegative() {
			return apperrors.NewInvalidArgumentError(
				fmt.Sprintf("services[%d].basePrice", i),
				fmt.Sprintf("must not be negative, got %s", svc.BasePrice.String()),
			)
		}
	}
	return nil
}

func hasRule(tpl QuoteTemplate, name string) bool {
	for _, r := range tpl.Formulas {
		if r.Name == name {
			return true
		}
	}
	return false
}
