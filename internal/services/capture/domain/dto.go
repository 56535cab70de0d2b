// Package domain holds DTOs for capture http and service contracts
package domain

// StoreCookiesInput carries browser-collected marketing cookies.
type StoreCookiesInput struct {
	MarketingCookies map[string]string `json:"marketing_cookies" validate:"required"`
}

// AttributionView is the session snapshot returned to callers.
type AttributionView struct {
	UTM     map[string]any `json:"utm"`
	Source  map[string]any `json:"source"`
	Cookies map[string]any `json:"cookies"`
}

// Empty reports whether nothing has been captured yet.
func (v AttributionView) Empty() bool {
	return len(v.UTM) == 0 && len(v.Source) == 0 && len(v.Cookies) == 0
}
