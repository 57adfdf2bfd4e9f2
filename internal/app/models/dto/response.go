package dto

import "time"

// APIResponse is the envelope of every successful response. View names the
// page the data is rendered with; Redirect is set after a state change
// instead of View.
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	View      string      `json:"view,omitempty" example:"school/all_schools"`
	Redirect  string      `json:"redirect,omitempty" example:"/school/all"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewViewResponse wraps data for rendering with the named view
func NewViewResponse(view string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		View:      view,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewRedirectResponse reports a completed action and where to go next
func NewRedirectResponse(location string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Redirect:  location,
		Data:      data,
		Timestamp: time.Now(),
	}
}
