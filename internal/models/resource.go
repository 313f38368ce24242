// internal/models/resource.go
package models

// Resource names a record collection exposed under /api/<resource>.
type Resource string

const (
	ResourceSuppliers      Resource = "suppliers"
	ResourceRates          Resource = "rates"
	ResourceTours          Resource = "tours"
	ResourceBookings       Resource = "bookings"
	ResourceAgents         Resource = "agents"
	ResourceQuotes         Resource = "quotes"
	ResourceInvoices       Resource = "invoices"
	ResourceChecklists     Resource = "checklists"
	ResourceOvernightLists Resource = "overnight-lists"
	ResourceTemplates      Resource = "templates"
	ResourceQuoteTemplates Resource = "quote-templates"
	ResourceQuoteSchedule  Resource = "quote-schedule"
)

// Resources lists every collection in route registration order.
var Resources = []Resource{
	ResourceSuppliers,
	ResourceRates,
	ResourceTours,
	ResourceBookings,
	ResourceAgents,
	ResourceQuotes,
	ResourceInvoices,
	ResourceChecklists,
	ResourceOvernightLists,
	ResourceTemplates,
	ResourceQuoteTemplates,
	ResourceQuoteSchedule,
}

func (r Resource) Valid() bool {
	for _, known := range Resources {
		if r == known {
			return true
		}
	}
	return false
}
