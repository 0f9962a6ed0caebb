package service

import (
	"context"
	"fmt"
	"testing"

	"smsrelay/internal/errors"
	"smsrelay/internal/models"
	"smsrelay/pkg/twilio"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(db *mockDatabase, provider *mockProvider) MessageService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewMessageService(provider, db, "+15550009999", "https://relay.example.com/sms/status", logger)
}

func TestSendMessage_Success(t *testing.T) {
	db := newMockDatabase()
	provider := &mockProvider{resp: &twilio.MessageResponse{SID: "SM123", Status: "queued"}}
	svc := newTestService(db, provider)

	resp, err := svc.SendMessage(context.Background(), "+15551234567", "hi")
	require.NoError(t, err)
	assert.Equal(t, "queued", resp.Status)
	assert.Equal(t, "SM123", resp.SID)

	require.Len(t, db.messages, 1)
	saved := db.messages[0]
	assert.Equal(t, "+15551234567", saved.ToNumber)
	assert.Equal(t, "+15550009999", saved.FromNumber)
	assert.Equal(t, "hi", saved.Body)
	assert.Equal(t, models.DirectionOutbound, saved.Direction)
	assert.Equal(t, "queued", saved.Status)
	require.NotNil(t, saved.ProviderSID)
	assert.Equal(t, "SM123", *saved.ProviderSID)

	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "https://relay.example.com/sms/status", provider.lastCB)
}

func TestSendMessage_MissingTo(t *testing.T) {
	db := newMockDatabase()
	provider := &mockProvider{}
	svc := newTestService(db, provider)

	_, err := svc.SendMessage(context.Background(), "", "hi")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	// No provider call and no insert on validation failure
	assert.Equal(t, 0, provider.calls)
	assert.Empty(t, db.messages)
}

func TestSendMessage_MissingBody(t *testing.T) {
	db := newMockDatabase()
	provider := &mockProvider{}
	svc := newTestService(db, provider)

	_, err := svc.SendMessage(context.Background(), "+15551234567", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, 0, provider.calls)
	assert.Empty(t, db.messages)
}

func TestSendMessage_ProviderFailurePropagates(t *testing.T) {
	db := newMockDatabase()
	provider := &mockProvider{err: fmt.Errorf("carrier down")}
	svc := newTestService(db, provider)

	_, err := svc.SendMessage(context.Background(), "+15551234567", "hi")
	require.Error(t, err)
	assert.False(t, errors.IsValidationError(err))

	// Provider failure must not leave a row behind
	assert.Empty(t, db.messages)
}

func TestSendMessage_EmptyProviderStatusDefaults(t *testing.T) {
	db := newMockDatabase()
	provider := &mockProvider{resp: &twilio.MessageResponse{SID: "SM999"}}
	svc := newTestService(db, provider)

	_, err := svc.SendMessage(context.Background(), "+15551234567", "hi")
	require.NoError(t, err)
	require.Len(t, db.messages, 1)
	assert.Equal(t, models.StatusReceived, db.messages[0].Status)
}

func TestReceiveInbound_StoresMessage(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{})

	msg, err := svc.ReceiveInbound(context.Background(), &models.InboundMessage{
		From: "+15551112222",
		To:   "+15550009999",
		Body: "inbound hello",
	})
	require.NoError(t, err)

	require.Len(t, db.messages, 1)
	assert.Equal(t, models.DirectionInbound, msg.Direction)
	assert.Equal(t, models.StatusReceived, msg.Status)
	assert.Nil(t, msg.ProviderSID)
	assert.Equal(t, "inbound hello", msg.Body)
}

func TestReceiveInbound_ToleratesMissingFields(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{})

	msg, err := svc.ReceiveInbound(context.Background(), &models.InboundMessage{})
	require.NoError(t, err)

	require.Len(t, db.messages, 1)
	assert.Empty(t, msg.FromNumber)
	assert.Empty(t, msg.Body)
	assert.Equal(t, models.StatusReceived, msg.Status)
}

func TestUpdateDeliveryStatus_AppliesToMatchingRow(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{resp: &twilio.MessageResponse{SID: "SMup", Status: "queued"}})

	_, err := svc.SendMessage(context.Background(), "+15551234567", "hi")
	require.NoError(t, err)

	err = svc.UpdateDeliveryStatus(context.Background(), &models.StatusCallback{
		MessageSID: "SMup",
		Status:     "delivered",
	})
	require.NoError(t, err)

	assert.Equal(t, "delivered", db.messages[0].Status)
	assert.Nil(t, db.messages[0].ErrorCode)
}

func TestUpdateDeliveryStatus_EmptySIDIsNoOp(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{})

	err := svc.UpdateDeliveryStatus(context.Background(), &models.StatusCallback{
		Status: "delivered",
	})
	require.NoError(t, err)
	assert.Empty(t, db.updateCalls)
}

func TestUpdateDeliveryStatus_MalformedSIDIsNoOp(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{})

	err := svc.UpdateDeliveryStatus(context.Background(), &models.StatusCallback{
		MessageSID: "SM123\nDROP",
		Status:     "delivered",
	})
	require.NoError(t, err)
	assert.Empty(t, db.updateCalls)
}

func TestUpdateDeliveryStatus_ErrorCodeStored(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{resp: &twilio.MessageResponse{SID: "SMfail", Status: "queued"}})

	_, err := svc.SendMessage(context.Background(), "+15551234567", "hi")
	require.NoError(t, err)

	err = svc.UpdateDeliveryStatus(context.Background(), &models.StatusCallback{
		MessageSID: "SMfail",
		Status:     "undelivered",
		ErrorCode:  "30008",
	})
	require.NoError(t, err)

	require.NotNil(t, db.messages[0].ErrorCode)
	assert.Equal(t, "30008", *db.messages[0].ErrorCode)
	assert.Equal(t, "undelivered", db.messages[0].Status)
}

func TestListMessages(t *testing.T) {
	db := newMockDatabase()
	svc := newTestService(db, &mockProvider{})

	_, err := svc.ReceiveInbound(context.Background(), &models.InboundMessage{Body: "one"})
	require.NoError(t, err)
	_, err = svc.ReceiveInbound(context.Background(), &models.InboundMessage{Body: "two"})
	require.NoError(t, err)

	messages, err := svc.ListMessages(context.Background())
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "two", messages[0].Body)
}

func TestListMessages_DatabaseError(t *testing.T) {
	db := newMockDatabase()
	db.listErr = fmt.Errorf("disk error")
	svc := newTestService(db, &mockProvider{})

	_, err := svc.ListMessages(context.Background())
	assert.Error(t, err)
}
