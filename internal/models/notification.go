package models

type Notification struct {
	ID            string                 `json:"id"`
	RecipientID   string                 `json:"recipientId"`
	RecipientType string                 `json:"recipientType"` // "teacher" or "guardian"
	Type          string                 `json:"type"`          // "intervention_needed"
	Channel       string                 `json:"channel"`       // "email", "sms"
	Status        string                 `json:"status"`        // "sent", "failed", "disabled"
	Payload       map[string]interface{} `json:"payload,omitempty"`
	SentAt        string                 `json:"sentAt,omitempty"`
}
