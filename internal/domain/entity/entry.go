package entity

import "time"

// Entry entrada de mercancía. Cada entrada corresponde a exactamente un Movement de tipo entry.
type Entry struct {
	ID           string
	ProductID    string
	Quantity     int
	UserID       string
	Observations string
	CreatedAt    time.Time

	ProductName string
	UserName    string
}

// Exit salida de mercancía. Reason es obligatorio.
type Exit struct {
	ID           string
	ProductID    string
	Quantity     int
	UserID       string
	Reason       string
	Observations string
	CreatedAt    time.Time

	ProductName string
	UserName    string
}
