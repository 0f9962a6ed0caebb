package models

import (
	"time"
)

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// StatusReceived is the initial status for inbound messages. Outbound
// messages carry whatever status token the carrier returned; the value
// domain is provider-defined and not validated here.
const StatusReceived = "received"

// Message is the single persisted entity: one row per inbound message
// or per successful outbound send. Direction never changes after
// creation; status and error code are only touched by delivery
// callbacks.
type Message struct {
	ID          int64     `db:"id"`
	ProviderSID *string   `db:"provider_sid"`
	FromNumber  string    `db:"from_number"`
	ToNumber    string    `db:"to_number"`
	Body        string    `db:"body"`
	Direction   Direction `db:"direction"`
	Status      string    `db:"status"`
	ErrorCode   *string   `db:"error_code"`
	CreatedAt   time.Time `db:"created_at"`
}

// CreatedAtLayout is the fixed timestamp format used by the list endpoint.
const CreatedAtLayout = "2006-01-02 15:04:05"

// MessageView is the JSON shape returned by GET /messages.
type MessageView struct {
	ID          int64   `json:"id"`
	ProviderSID *string `json:"sid"`
	FromNumber  string  `json:"from_number"`
	ToNumber    string  `json:"to_number"`
	Body        string  `json:"body"`
	Direction   string  `json:"direction"`
	Status      string  `json:"status"`
	ErrorCode   *string `json:"error_code"`
	CreatedAt   string  `json:"timestamp"`
}

// View converts a stored message into its list-endpoint representation.
func (m *Message) View() MessageView {
	return MessageView{
		ID:          m.ID,
		ProviderSID: m.ProviderSID,
		FromNumber:  m.FromNumber,
		ToNumber:    m.ToNumber,
		Body:        m.Body,
		Direction:   string(m.Direction),
		Status:      m.Status,
		ErrorCode:   m.ErrorCode,
		CreatedAt:   m.CreatedAt.Format(CreatedAtLayout),
	}
}

// SendRequest is the body of POST /send-sms.
type SendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendResponse mirrors the original service's send reply.
type SendResponse struct {
	Status string `json:"status"`
	SID    string `json:"sid"`
}

// StatusCallback carries the carrier's delivery-state notification for a
// previously sent message.
type StatusCallback struct {
	MessageSID string
	Status     string
	ErrorCode  string
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
