package vault

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/keepsakehq/keepsake/internal/db"
	"github.com/keepsakehq/keepsake/internal/errors"
)

// settingsKey is where the encoded PIN record lives in the settings table.
// Absence means no PIN has ever been configured.
const settingsKey = "vault_pin"

// Argon2id parameters (OWASP 2024 recommendation).
const (
	hashVersion  = "v1"
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// Store persists the encoded PIN record. The plaintext PIN never touches
// storage; only the salted argon2id digest does.
type Store interface {
	// Get returns the encoded record. The second value is false when no
	// PIN has been configured yet.
	Get(ctx context.Context) (string, bool, error)
	// Set replaces the encoded record.
	Set(ctx context.Context, encoded string) error
}

// SettingsStore is the sqlite-backed Store.
type SettingsStore struct {
	DB *sql.DB
}

func (s *SettingsStore) Get(ctx context.Context) (string, bool, error) {
	return db.GetSetting(ctx, s.DB, settingsKey)
}

func (s *SettingsStore) Set(ctx context.Context, encoded string) error {
	return db.SetSetting(ctx, s.DB, settingsKey, encoded)
}

// Hash derives a salted argon2id digest of pin and encodes it as
// version$base64(salt)$base64(digest).
func Hash(pin string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.NewInternal(err)
	}

	digest := argon2.IDKey([]byte(pin), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s$%s$%s",
		hashVersion,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

// Verify reports whether pin matches the encoded record. The comparison is
// constant-time over the derived digest.
func Verify(encoded, pin string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashVersion {
		return false, errors.NewInternal(fmt.Errorf("malformed pin record"))
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, errors.NewInternal(fmt.Errorf("malformed pin record: %w", err))
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false, errors.NewInternal(fmt.Errorf("malformed pin record: %w", err))
	}

	got := argon2.IDKey([]byte(pin), salt, argonTime, argonMemory, argonThreads, uint32(len(want)))

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
