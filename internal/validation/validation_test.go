package validation

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProviderSID(t *testing.T) {
	assert.NoError(t, ValidateProviderSID("SM1234567890abcdef"))
	assert.Error(t, ValidateProviderSID(""))
	assert.Error(t, ValidateProviderSID(strings.Repeat("S", 65)))
	assert.Error(t, ValidateProviderSID("SM123\n456"))
	assert.Error(t, ValidateProviderSID("SM123\x00456"))
}

func TestValidateHTTPRequestSize(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/send-sms", nil)
	req.ContentLength = 100
	assert.NoError(t, ValidateHTTPRequestSize(req, 1024))

	req.ContentLength = 2048
	assert.Error(t, ValidateHTTPRequestSize(req, 1024))
}

func TestValidateDatabasePath(t *testing.T) {
	assert.NoError(t, ValidateDatabasePath("sms.db"))
	assert.NoError(t, ValidateDatabasePath("/var/lib/smsrelay/sms.db"))
	assert.Error(t, ValidateDatabasePath(""))
	assert.Error(t, ValidateDatabasePath("foo/../../etc/passwd"))
	assert.Error(t, ValidateDatabasePath("bad\x00path.db"))
}
