// internal/models/supplier.go
package models

// Supplier is a lodge, transport company or activity provider.
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Location      string `json:"location"`
	Country       string `json:"country"`
	Notes         string `json:"notes"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// SupplierSearchFields are the text fields matched by supplier search.
var SupplierSearchFields = []string{"name^3", "type", "contactPerson", "location^2", "country", "notes"}
