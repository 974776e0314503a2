// internal/models/user.go
package models

import "time"

// UserProfile carries the personalization state for one user. TasteVector is
// nil until the first successful computation with at least one eligible
// liked item.
type UserProfile struct {
	ID                   string     `json:"id"`
	TasteVector          []float64  `json:"tasteVector,omitempty"`
	TasteVectorUpdatedAt *time.Time `json:"tasteVectorUpdatedAt,omitempty"`
}
