package main

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"smsrelay/internal/constants"
	"smsrelay/internal/errors"
	"smsrelay/internal/models"
	"smsrelay/internal/validation"

	"github.com/sirupsen/logrus"
)

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.WithError(err).Error("Failed to write health response")
		}
	}
}

// handleSendSMS accepts {"to": ..., "message": ...}, forwards the
// message to the carrier and persists the outbound record.
func (s *Server) handleSendSMS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validation.ValidateHTTPRequestSize(r, constants.MaxSendRequestBytes); err != nil {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}

		var req models.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		if req.To == "" || req.Message == "" {
			s.writeError(w, http.StatusBadRequest, "missing 'to' or 'message'")
			return
		}

		resp, err := s.msgService.SendMessage(r.Context(), req.To, req.Message)
		if err != nil {
			if errors.IsValidationError(err) {
				s.writeError(w, http.StatusBadRequest, errors.GetUserMessage(err))
				return
			}
			s.logger.WithError(err).Error("Failed to send message")
			s.writeError(w, http.StatusBadGateway, "failed to send message")
			return
		}

		s.writeJSON(w, http.StatusOK, resp)
	}
}

// handleReceiveSMS stores an inbound carrier message and replies with
// the fixed TwiML acknowledgement. Incomplete payloads are stored as-is;
// this endpoint never rejects a message.
func (s *Server) handleReceiveSMS() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validation.ValidateHTTPRequestSize(r, constants.MaxWebhookRequestBytes); err != nil {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}

		inbound := s.parseInbound(r)

		if _, err := s.msgService.ReceiveInbound(r.Context(), inbound); err != nil {
			s.logger.WithError(err).Error("Failed to store inbound message")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		reply, err := xml.Marshal(models.TwiML{Message: models.InboundAckMessage})
		if err != nil {
			s.logger.WithError(err).Error("Failed to marshal TwiML reply")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(append([]byte(xml.Header), reply...)); err != nil {
			s.logger.WithError(err).Error("Failed to write TwiML response")
		}
	}
}

// parseInbound normalizes the two inbound webhook shapes: a nested JSON
// envelope is tried first, then flat form fields fill anything the
// envelope did not provide. Body text may arrive as Body or SmsBody.
func (s *Server) parseInbound(r *http.Request) *models.InboundMessage {
	var envelope models.InboundWebhookPayload

	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		body, err := io.ReadAll(io.LimitReader(r.Body, constants.MaxWebhookRequestBytes))
		if err == nil {
			if err := json.Unmarshal(body, &envelope); err != nil {
				s.logger.WithError(err).Debug("Inbound payload is not a JSON envelope, using form fields")
			}
		}
		// Restore the body so form parsing still works for mixed senders.
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if err := r.ParseForm(); err != nil {
		s.logger.WithError(err).Debug("Failed to parse inbound form data")
	}

	formValue := func(key string) string {
		if v := r.PostFormValue(key); v != "" {
			return v
		}
		return r.URL.Query().Get(key)
	}

	inbound := &models.InboundMessage{
		From: envelope.Payload.From,
		To:   envelope.Payload.To,
		Body: envelope.Payload.Body,
	}
	if inbound.Body == "" {
		inbound.Body = envelope.Payload.SmsBody
	}

	if inbound.From == "" {
		inbound.From = formValue("From")
	}
	if inbound.To == "" {
		inbound.To = formValue("To")
	}
	if inbound.Body == "" {
		inbound.Body = formValue("Body")
	}
	if inbound.Body == "" {
		inbound.Body = formValue("SmsBody")
	}

	return inbound
}

// handleStatusCallback applies a carrier delivery-status notification.
// The response is always 204: a missing or unknown SID is a no-op, and
// the carrier cannot act on failures anyway.
func (s *Server) handleStatusCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.logger.WithError(err).Debug("Failed to parse status callback form")
		}

		cb := &models.StatusCallback{
			MessageSID: r.PostFormValue("MessageSid"),
			Status:     r.PostFormValue("MessageStatus"),
			ErrorCode:  r.PostFormValue("ErrorCode"),
		}

		if err := s.msgService.UpdateDeliveryStatus(r.Context(), cb); err != nil {
			s.logger.WithError(err).Error("Failed to apply status callback")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleListMessages returns every stored message, newest first.
func (s *Server) handleListMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := s.msgService.ListMessages(r.Context())
		if err != nil {
			s.logger.WithError(err).Error("Failed to list messages")
			s.writeError(w, http.StatusInternalServerError, "failed to list messages")
			return
		}

		views := make([]models.MessageView, 0, len(messages))
		for _, msg := range messages {
			views = append(views, msg.View())
		}

		s.writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithFields(logrus.Fields{
			"error": err,
		}).Error("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
