package service

import (
	"context"
	"fmt"

	"smsrelay/internal/errors"
	"smsrelay/internal/models"
	"smsrelay/internal/privacy"
	"smsrelay/internal/validation"
	"smsrelay/pkg/twilio"

	"github.com/sirupsen/logrus"
)

// Log field names shared with the middleware layer.
const (
	LogFieldRequestID  = "request_id"
	LogFieldTraceID    = "trace_id"
	LogFieldMethod     = "method"
	LogFieldURL        = "url"
	LogFieldStatusCode = "status_code"
	LogFieldDuration   = "duration_ms"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"
	LogFieldSize       = "response_size"
	LogFieldService    = "service"
	LogFieldComponent  = "component"
)

type Database interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	GetMessageByProviderSID(ctx context.Context, sid string) (*models.Message, error)
	UpdateStatusByProviderSID(ctx context.Context, sid, status string, errorCode *string) error
	ListMessages(ctx context.Context) ([]*models.Message, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, to, body string) (*models.SendResponse, error)
	ReceiveInbound(ctx context.Context, inbound *models.InboundMessage) (*models.Message, error)
	UpdateDeliveryStatus(ctx context.Context, cb *models.StatusCallback) error
	ListMessages(ctx context.Context) ([]*models.Message, error)
}

type messageService struct {
	logger     *logrus.Logger
	db         Database
	provider   twilio.Client
	fromNumber string
	// statusCallbackURL is attached to outbound sends so the carrier
	// can report delivery updates; empty disables callbacks.
	statusCallbackURL string
}

func NewMessageService(provider twilio.Client, db Database, fromNumber, statusCallbackURL string, logger *logrus.Logger) MessageService {
	if logger == nil {
		logger = logrus.New()
	}
	return &messageService{
		logger:            logger,
		db:                db,
		provider:          provider,
		fromNumber:        fromNumber,
		statusCallbackURL: statusCallbackURL,
	}
}

// SendMessage forwards an outbound message to the carrier and persists
// the resulting record. Carrier failures are not handled here; they
// propagate to the caller unretried.
func (s *messageService) SendMessage(ctx context.Context, to, body string) (*models.SendResponse, error) {
	if to == "" {
		return nil, errors.NewValidationError("to", "destination number is required")
	}
	if body == "" {
		return nil, errors.NewValidationError("message", "message body is required")
	}

	resp, err := s.provider.SendMessage(ctx, to, body, s.statusCallbackURL)
	if err != nil {
		return nil, fmt.Errorf("provider send failed: %w", err)
	}

	sid := resp.SID
	msg := &models.Message{
		ProviderSID: &sid,
		FromNumber:  s.fromNumber,
		ToNumber:    to,
		Body:        body,
		Direction:   models.DirectionOutbound,
		Status:      resp.Status,
	}
	if msg.Status == "" {
		msg.Status = models.StatusReceived
	}

	if err := s.db.SaveMessage(ctx, msg); err != nil {
		return nil, errors.NewDatabaseError("insert outbound message", err)
	}

	s.logger.WithFields(logrus.Fields{
		"sid":    privacy.MaskProviderSID(sid),
		"to":     privacy.MaskPhoneNumber(to),
		"status": resp.Status,
	}).Info("Outbound message sent")

	return &models.SendResponse{Status: "queued", SID: sid}, nil
}

// ReceiveInbound persists an inbound message exactly as it arrived.
// Missing fields are stored empty; this never rejects incomplete data.
func (s *messageService) ReceiveInbound(ctx context.Context, inbound *models.InboundMessage) (*models.Message, error) {
	msg := &models.Message{
		FromNumber: inbound.From,
		ToNumber:   inbound.To,
		Body:       inbound.Body,
		Direction:  models.DirectionInbound,
		Status:     models.StatusReceived,
	}

	if err := s.db.SaveMessage(ctx, msg); err != nil {
		return nil, errors.NewDatabaseError("insert inbound message", err)
	}

	s.logger.WithFields(logrus.Fields{
		"from": privacy.MaskPhoneNumber(inbound.From),
		"to":   privacy.MaskPhoneNumber(inbound.To),
	}).Info("Inbound message stored")

	return msg, nil
}

// UpdateDeliveryStatus applies a carrier status callback to the first
// message matching the SID. A missing SID or no matching row is a
// silent no-op so the carrier always gets its empty success reply.
func (s *messageService) UpdateDeliveryStatus(ctx context.Context, cb *models.StatusCallback) error {
	if cb.MessageSID == "" {
		s.logger.Debug("Status callback without message SID ignored")
		return nil
	}
	if err := validation.ValidateProviderSID(cb.MessageSID); err != nil {
		s.logger.WithError(err).Debug("Status callback with malformed SID ignored")
		return nil
	}

	var errorCode *string
	if cb.ErrorCode != "" {
		errorCode = &cb.ErrorCode
	}

	if err := s.db.UpdateStatusByProviderSID(ctx, cb.MessageSID, cb.Status, errorCode); err != nil {
		return errors.NewDatabaseError("update delivery status", err)
	}

	s.logger.WithFields(logrus.Fields{
		"sid":    privacy.MaskProviderSID(cb.MessageSID),
		"status": cb.Status,
	}).Info("Delivery status updated")

	return nil
}

// ListMessages returns all stored messages, newest first.
func (s *messageService) ListMessages(ctx context.Context) ([]*models.Message, error) {
	messages, err := s.db.ListMessages(ctx)
	if err != nil {
		return nil, errors.NewDatabaseError("list messages", err)
	}
	return messages, nil
}
