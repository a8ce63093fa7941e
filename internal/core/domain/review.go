package domain

import (
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

// Review is a customer rating on a product. Deletion is allowed for the
// review's owner or an admin, nobody else.
type Review struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ProductID string    `json:"product_id" bson:"product_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
