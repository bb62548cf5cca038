package lettermint

import "encoding/json"

// EmailStatus is the delivery state reported by the API.
type EmailStatus string

const (
	StatusPending     EmailStatus = "pending"
	StatusQueued      EmailStatus = "queued"
	StatusProcessed   EmailStatus = "processed"
	StatusDelivered   EmailStatus = "delivered"
	StatusSoftBounced EmailStatus = "soft_bounced"
	StatusHardBounced EmailStatus = "hard_bounced"
	StatusFailed      EmailStatus = "failed"
)

// Known reports whether s is one of the documented statuses.
func (s EmailStatus) Known() bool {
	switch s {
	case StatusPending, StatusQueued, StatusProcessed, StatusDelivered,
		StatusSoftBounced, StatusHardBounced, StatusFailed:
		return true
	}
	return false
}

// SendEmailResponse is the result of a successful send.
type SendEmailResponse struct {
	MessageID string      `json:"message_id"`
	Status    EmailStatus `json:"status"`

	// HTTPStatus is the status code of the response.
	HTTPStatus int `json:"-"`
	// Raw holds every field of the response body.
	Raw map[string]any `json:"-"`
}

func decodeSendResponse(status int, body []byte) (*SendEmailResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errNotObject
	}
	resp := &SendEmailResponse{HTTPStatus: status, Raw: raw}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
