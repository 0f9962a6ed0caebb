package constants

// Default server configuration values
const (
	DefaultServerPort           = 8080
	DefaultServerReadTimeoutSec = 15
	DefaultServerWriteTimeout   = 15
	DefaultServerIdleTimeoutSec = 60
	DefaultGracefulShutdownSec  = 30
)

// Default retry configuration for database initialization
const (
	DefaultDatabaseRetryAttempts = 3
	DefaultBackoffInitialMs      = 500
	DefaultBackoffMaxMs          = 5000
)

// Default provider client values
const (
	DefaultProviderTimeoutSec = 30
	TwilioAPIBaseURL          = "https://api.twilio.com"
	TwilioAPIVersion          = "2010-04-01"
)

// Validation bounds
const (
	MaxProviderSIDLength   = 64
	MaxWebhookRequestBytes = 1 << 20
	MaxSendRequestBytes    = 64 << 10
)

// Encryption salts for at-rest message protection
const (
	EncryptionSalt       = "smsrelay-db-salt-v1"
	EncryptionLookupSalt = "smsrelay-lookup-v1"
)

// ServerErrorChannelSize is the buffer size for the server error channel
const ServerErrorChannelSize = 1
