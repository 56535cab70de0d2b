// Package domain holds DTOs for attribution record http and service contracts
package domain

// SetValuesInput is the batch key/value mutation payload for a record.
// A nil, blank string, or empty collection value deletes its key
type SetValuesInput struct {
	Values map[string]any `json:"values" validate:"required"`
}

// RecordView is the outbound projection of a stored record: the raw
// merged map plus its derived read-only views
type RecordView struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`

	Data      map[string]any    `json:"data"`
	Formatted map[string]string `json:"formatted"`

	SourceMedium string `json:"utm_source_medium,omitempty"`
	CampaignTerm string `json:"utm_campaign_term,omitempty"`
	MediumTerm   string `json:"utm_medium_term,omitempty"`

	PrimaryClickID string `json:"primary_click_id,omitempty"`
	Platform       string `json:"platform,omitempty"`
	PlatformName   string `json:"platform_name,omitempty"`
}
