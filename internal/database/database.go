package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"smsrelay/internal/migrations"
	"smsrelay/internal/models"
	"smsrelay/internal/validation"

	_ "github.com/mattn/go-sqlite3"
)

type Database struct {
	db        *sql.DB
	encryptor *encryptor
}

func New(dbPath string) (*Database, error) {
	if err := validation.ValidateDatabasePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	file, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create database file: %w", err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close database file: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to read schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	enc, err := NewEncryptor()
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to initialize encryptor: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to initialize encryptor: %w", err)
	}

	return &Database{db: db, encryptor: enc}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// SaveMessage inserts a new message row and assigns its ID and creation
// time. Direction and created_at are never updated afterwards.
func (d *Database) SaveMessage(ctx context.Context, msg *models.Message) error {
	encryptedFrom, err := d.encryptor.EncryptIfEnabled(msg.FromNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt from number: %w", err)
	}

	encryptedTo, err := d.encryptor.EncryptIfEnabled(msg.ToNumber)
	if err != nil {
		return fmt.Errorf("failed to encrypt to number: %w", err)
	}

	encryptedBody, err := d.encryptor.EncryptIfEnabled(msg.Body)
	if err != nil {
		return fmt.Errorf("failed to encrypt body: %w", err)
	}

	var encryptedSID *string
	if msg.ProviderSID != nil {
		sid, err := d.encryptor.EncryptForLookupIfEnabled(*msg.ProviderSID)
		if err != nil {
			return fmt.Errorf("failed to encrypt provider SID: %w", err)
		}
		encryptedSID = &sid
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO messages (
			provider_sid, from_number, to_number, body,
			direction, status, error_code, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := d.db.ExecContext(ctx, query,
		encryptedSID,
		encryptedFrom,
		encryptedTo,
		encryptedBody,
		string(msg.Direction),
		msg.Status,
		msg.ErrorCode,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted message ID: %w", err)
	}
	msg.ID = id

	return nil
}

// GetMessageByProviderSID returns the first message matching the given
// provider SID, lowest ID first. Returns nil when no row matches;
// duplicate SIDs are tolerated, not an error.
func (d *Database) GetMessageByProviderSID(ctx context.Context, sid string) (*models.Message, error) {
	encryptedSID, err := d.encryptor.EncryptForLookupIfEnabled(sid)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt provider SID: %w", err)
	}

	query := `
		SELECT id, provider_sid, from_number, to_number, body,
			   direction, status, error_code, created_at
		FROM messages
		WHERE provider_sid = ?
		ORDER BY id ASC
		LIMIT 1
	`

	msg, err := d.scanMessage(d.db.QueryRowContext(ctx, query, encryptedSID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by provider SID: %w", err)
	}

	return msg, nil
}

// UpdateStatusByProviderSID overwrites status and error code on the
// first message matching the SID. Zero matched rows is a silent no-op:
// callers cannot distinguish "updated" from "nothing to update".
func (d *Database) UpdateStatusByProviderSID(ctx context.Context, sid, status string, errorCode *string) error {
	encryptedSID, err := d.encryptor.EncryptForLookupIfEnabled(sid)
	if err != nil {
		return fmt.Errorf("failed to encrypt provider SID: %w", err)
	}

	query := `
		UPDATE messages
		SET status = ?, error_code = ?
		WHERE id = (
			SELECT id FROM messages WHERE provider_sid = ? ORDER BY id ASC LIMIT 1
		)
	`

	if _, err := d.db.ExecContext(ctx, query, status, errorCode, encryptedSID); err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}

	return nil
}

// ListMessages returns every stored message, newest first.
func (d *Database) ListMessages(ctx context.Context) ([]*models.Message, error) {
	query := `
		SELECT id, provider_sid, from_number, to_number, body,
			   direction, status, error_code, created_at
		FROM messages
		ORDER BY created_at DESC, id DESC
	`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg, err := d.scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *Database) scanMessage(row rowScanner) (*models.Message, error) {
	var encryptedSID *string
	var encryptedFrom, encryptedTo, encryptedBody string
	var direction string
	msg := &models.Message{}

	err := row.Scan(
		&msg.ID,
		&encryptedSID,
		&encryptedFrom,
		&encryptedTo,
		&encryptedBody,
		&direction,
		&msg.Status,
		&msg.ErrorCode,
		&msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	msg.Direction = models.Direction(direction)

	if encryptedSID != nil {
		sid, err := d.encryptor.DecryptIfEnabled(*encryptedSID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt provider SID: %w", err)
		}
		msg.ProviderSID = &sid
	}

	msg.FromNumber, err = d.encryptor.DecryptIfEnabled(encryptedFrom)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt from number: %w", err)
	}

	msg.ToNumber, err = d.encryptor.DecryptIfEnabled(encryptedTo)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt to number: %w", err)
	}

	msg.Body, err = d.encryptor.DecryptIfEnabled(encryptedBody)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt body: %w", err)
	}

	return msg, nil
}
