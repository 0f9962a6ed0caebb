// Package twilio implements a minimal client for the Twilio Messages
// REST API, covering only the send operation this service needs.
package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smsrelay/internal/constants"
	"smsrelay/internal/errors"
)

type Client interface {
	SendMessage(ctx context.Context, to, body, statusCallback string) (*MessageResponse, error)
}

type ClientConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
}

type twilioClient struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

// MessageResponse is the subset of the Twilio message resource the
// relay cares about.
type MessageResponse struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

// apiError is Twilio's error document for non-2xx responses.
type apiError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func NewClient(cfg ClientConfig) Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.TwilioAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Duration(constants.DefaultProviderTimeoutSec) * time.Second
	}

	return &twilioClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		client:     &http.Client{Timeout: timeout},
	}
}

// SendMessage posts a new outbound message to the carrier. When
// statusCallback is non-empty the carrier will report delivery state
// changes to that URL.
func (c *twilioClient) SendMessage(ctx context.Context, to, body, statusCallback string) (*MessageResponse, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.fromNumber)
	form.Set("Body", body)
	if statusCallback != "" {
		form.Set("StatusCallback", statusCallback)
	}

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json",
		c.baseURL, constants.TwilioAPIVersion, c.accountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Message != "" {
			return nil, errors.NewProviderError(endpoint, resp.StatusCode,
				fmt.Errorf("twilio error %d: %s", apiErr.Code, apiErr.Message))
		}
		return nil, errors.NewProviderError(endpoint, resp.StatusCode,
			fmt.Errorf("request failed with status %d", resp.StatusCode))
	}

	var result MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
