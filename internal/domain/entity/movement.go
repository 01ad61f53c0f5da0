package entity

import "time"

// Tipos de movimiento del kardex.
const (
	MovementTypeEntry      = "entry"      // entrada de mercancía
	MovementTypeExit       = "exit"       // salida de mercancía
	MovementTypeCreation   = "creation"   // alta de producto
	MovementTypeUpdate     = "update"     // edición de producto
	MovementTypeDeletion   = "deletion"   // baja de producto
	MovementTypeAdjustment = "adjustment" // ajuste administrativo de stock
)

// ValidMovementType indica si t es un tipo de movimiento conocido.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeCreation,
		MovementTypeUpdate, MovementTypeDeletion, MovementTypeAdjustment:
		return true
	}
	return false
}

// Movement registro inmutable del kardex. Solo se inserta; nunca se actualiza ni se borra.
// ProductID y UserID quedan vacíos si la entidad referenciada se eliminó.
type Movement struct {
	ID        string // ULID, ordenable por tiempo
	Type      string
	ProductID string
	Quantity  int // delta aplicado al stock; 0 en movimientos de ciclo de vida
	UserID    string
	Detail    string
	CreatedAt time.Time

	// Solo lectura, resueltos en listados.
	ProductCode string
	ProductName string
	UserName    string
}
