package domain

import "time"

type Product struct {
	ID          uint   `json:"id"`
	StandID     uint   `json:"stand_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Price is expressed in token units.
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *int64
	Quantity    *int
	IsActive    *bool
}
