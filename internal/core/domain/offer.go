package domain

import (
	"errors"
	"time"
)

var ErrOfferNotFound = errors.New("offer not found")

// Offer is a time-bound percentage discount over a set of products.
type Offer struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	DiscountPct float64   `json:"discount_pct" bson:"discount_pct"`
	ProductIDs  []string  `json:"product_ids" bson:"product_ids"`
	StartsAt    time.Time `json:"starts_at" bson:"starts_at"`
	EndsAt      time.Time `json:"ends_at" bson:"ends_at"`
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Live reports whether the offer applies at the given instant.
func (o *Offer) Live(at time.Time) bool {
	return o.Active && !at.Before(o.StartsAt) && at.Before(o.EndsAt)
}
