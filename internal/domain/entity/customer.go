package entity

import "time"

// Customer representa un cliente al que se le factura.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Address    string
	City       string
	PostalCode string
	CreatedAt  time.Time
}
