package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"smsrelay/internal/constants"
	"smsrelay/internal/errors"
)

// ValidateProviderSID validates a carrier-assigned message identifier
func ValidateProviderSID(sid string) error {
	if sid == "" {
		return errors.New(errors.ErrCodeInvalidInput, "provider SID cannot be empty")
	}

	if len(sid) > constants.MaxProviderSIDLength {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("provider SID too long (max %d characters)", constants.MaxProviderSIDLength))
	}

	for _, char := range sid {
		if char == '\x00' || char == '\n' || char == '\r' || char == '\t' {
			return errors.New(errors.ErrCodeInvalidInput, "provider SID contains invalid characters")
		}
	}

	return nil
}

// ValidateHTTPRequestSize validates incoming HTTP request size
func ValidateHTTPRequestSize(r *http.Request, maxSizeBytes int64) error {
	if r.ContentLength > maxSizeBytes {
		return errors.New(errors.ErrCodeInvalidInput,
			fmt.Sprintf("request too large: %d bytes (max %d bytes)", r.ContentLength, maxSizeBytes))
	}

	return nil
}

// ValidateDatabasePath rejects empty paths, NUL bytes and directory
// traversal in the configured database location.
func ValidateDatabasePath(path string) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "database path cannot be empty")
	}

	if strings.ContainsRune(path, '\x00') {
		return errors.New(errors.ErrCodeInvalidInput, "database path contains invalid characters")
	}

	if strings.Contains(filepath.Clean(path), "..") {
		return errors.New(errors.ErrCodeInvalidInput, "database path contains directory traversal")
	}

	return nil
}
