package domain

import "time"

// Customer is a subscriber who can raise complaints.
type Customer struct {
	ID           int64
	Name         string
	Phone        string
	Email        *string
	Address      string
	RegisteredAt time.Time
}
