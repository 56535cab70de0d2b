// Package domain holds DTOs for touchlog http and service contracts
package domain

import "time"

// Touch is one click id observation bound to an entity
type Touch struct {
	DetectedAt time.Time `json:"detected_at"`
	SessionID  string    `json:"session_id,omitempty"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Platform   string    `json:"platform,omitempty"`
	Parameter  string    `json:"parameter"`
	ClickID    string    `json:"click_id"`
	Source     string    `json:"source"`
}

// RecentInput is the query surface for reading touches back
type RecentInput struct {
	EntityType string `json:"entity_type" validate:"required,min=1,max=100"`
	EntityID   string `json:"entity_id" validate:"required,min=1,max=100"`
	Limit      int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500"`
}
