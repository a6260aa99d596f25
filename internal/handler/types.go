package handler

import "time"

// AddClientRequest is the body of POST /clients.
type AddClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	// ReplaceDuplicate carries the caller's confirmation to replace an
	// existing record holding the same phone.
	ReplaceDuplicate bool   `json:"replace_duplicate,omitempty"`
	TestDurationMs   *int64 `json:"test_duration_ms,omitempty"`
}

// UpdateIboRequest is the body of PUT /clients/{id}/ibo.
type UpdateIboRequest struct {
	Updated bool `json:"updated"`
}

// SettingsPayload carries the admin settings in both directions.
type SettingsPayload struct {
	WhatsappMessage string `json:"whatsapp_message"`
}

// LinkResponse is the body of GET /clients/{id}/whatsapp-link.
type LinkResponse struct {
	URL string `json:"url"`
}

// SchedulerResponse reports a scheduler state change.
type SchedulerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
