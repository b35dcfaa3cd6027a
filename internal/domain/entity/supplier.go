package entity

import "time"

// Supplier representa un proveedor. Sin invariantes cruzados: los artículos lo
// referencian por SupplierID solo para mostrarlo (sin borrado en cascada).
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
