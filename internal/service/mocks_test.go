package service

import (
	"context"
	"fmt"

	"smsrelay/internal/models"
	"smsrelay/pkg/twilio"
)

type mockDatabase struct {
	messages    []*models.Message
	saveErr     error
	updateErr   error
	listErr     error
	updateCalls []mockUpdateCall
	nextID      int64
}

type mockUpdateCall struct {
	sid       string
	status    string
	errorCode *string
}

func newMockDatabase() *mockDatabase {
	return &mockDatabase{}
}

func (m *mockDatabase) SaveMessage(ctx context.Context, msg *models.Message) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.nextID++
	msg.ID = m.nextID
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockDatabase) GetMessageByProviderSID(ctx context.Context, sid string) (*models.Message, error) {
	for _, msg := range m.messages {
		if msg.ProviderSID != nil && *msg.ProviderSID == sid {
			return msg, nil
		}
	}
	return nil, nil
}

func (m *mockDatabase) UpdateStatusByProviderSID(ctx context.Context, sid, status string, errorCode *string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalls = append(m.updateCalls, mockUpdateCall{sid: sid, status: status, errorCode: errorCode})
	for _, msg := range m.messages {
		if msg.ProviderSID != nil && *msg.ProviderSID == sid {
			msg.Status = status
			msg.ErrorCode = errorCode
			return nil
		}
	}
	return nil
}

func (m *mockDatabase) ListMessages(ctx context.Context) ([]*models.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.Message, len(m.messages))
	for i, msg := range m.messages {
		out[len(m.messages)-1-i] = msg
	}
	return out, nil
}

type mockProvider struct {
	resp      *twilio.MessageResponse
	err       error
	calls     int
	lastTo    string
	lastBody  string
	lastCB    string
	failCalls bool
}

func (m *mockProvider) SendMessage(ctx context.Context, to, body, statusCallback string) (*twilio.MessageResponse, error) {
	m.calls++
	m.lastTo = to
	m.lastBody = body
	m.lastCB = statusCallback
	if m.failCalls || m.err != nil {
		if m.err != nil {
			return nil, m.err
		}
		return nil, fmt.Errorf("provider unavailable")
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &twilio.MessageResponse{SID: "SMdefault", Status: "queued"}, nil
}
