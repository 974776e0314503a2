// internal/models/swipe.go
package models

import "time"

// SwipeDirection is the gesture a user made over a property card.
type SwipeDirection string

const (
	SwipeRight     SwipeDirection = "RIGHT"      // like
	SwipeLeft      SwipeDirection = "LEFT"       // dislike
	SwipeSuperLike SwipeDirection = "SUPER_LIKE" // stronger like
)

// IsLike reports whether the gesture counts as a like for taste vector
// purposes. Super-like carries no extra weight in the mean.
func (d SwipeDirection) IsLike() bool {
	return d == SwipeRight || d == SwipeSuperLike
}

// Swipe is one immutable directional gesture over a property.
type Swipe struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	PropertyID string         `json:"propertyId"`
	Direction  SwipeDirection `json:"direction"`
	CreatedAt  time.Time      `json:"createdAt"`
}
