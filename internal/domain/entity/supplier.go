package entity

import "time"

// Supplier proveedor de productos.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Phone       string
	Email       string
	Address     string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
