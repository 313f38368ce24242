// internal/models/notification.go
package models

const (
	ChannelEmail = "email"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification reports one delivery of a rendered template.
type Notification struct {
	ID          string `json:"id"`
	TemplateID  string `json:"templateId"`
	RecipientID string `json:"recipientId,omitempty"`
	Recipient   string `json:"recipient"`
	Channel     string `json:"channel"`
	Status      string `json:"status"`
	Subject     string `json:"subject"`
	MessageID   string `json:"messageId,omitempty"`
	SentAt      string `json:"sentAt"`
}
