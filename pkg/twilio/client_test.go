package twilio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"smsrelay/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) Client {
	return NewClient(ClientConfig{
		BaseURL:    baseURL,
		AccountSID: "ACtest",
		AuthToken:  "secret-token",
		FromNumber: "+15550009999",
	})
}

func TestSendMessage_Success(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"To":             r.PostFormValue("To"),
			"From":           r.PostFormValue("From"),
			"Body":           r.PostFormValue("Body"),
			"StatusCallback": r.PostFormValue("StatusCallback"),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid": "SM123", "status": "queued"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.SendMessage(context.Background(), "+15551234567", "hi", "https://relay.example.com/sms/status")
	require.NoError(t, err)

	assert.Equal(t, "SM123", resp.SID)
	assert.Equal(t, "queued", resp.Status)

	assert.Equal(t, "/2010-04-01/Accounts/ACtest/Messages.json", gotPath)
	assert.Equal(t, "ACtest", gotUser)
	assert.Equal(t, "secret-token", gotPass)
	assert.Equal(t, "+15551234567", gotForm["To"])
	assert.Equal(t, "+15550009999", gotForm["From"])
	assert.Equal(t, "hi", gotForm["Body"])
	assert.Equal(t, "https://relay.example.com/sms/status", gotForm["StatusCallback"])
}

func TestSendMessage_OmitsEmptyStatusCallback(t *testing.T) {
	var hasCallback bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, hasCallback = r.PostForm["StatusCallback"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sid": "SM123", "status": "queued"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), "+15551234567", "hi", "")
	require.NoError(t, err)
	assert.False(t, hasCallback)
}

func TestSendMessage_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code": 21211, "message": "Invalid 'To' Phone Number", "status": 400}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), "not-a-number", "hi", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
	assert.Equal(t, errors.ErrCodeProviderAPI, errors.GetCode(err))
	assert.False(t, errors.IsRetryable(err))
}

func TestSendMessage_ServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(context.Background(), "+15551234567", "hi", "")
	require.Error(t, err)
	assert.True(t, errors.IsRetryable(err))
}

func TestSendMessage_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sid": "SM123", "status": "queued"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.SendMessage(ctx, "+15551234567", "hi", "")
	assert.Error(t, err)
}
