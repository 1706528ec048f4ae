package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "parapet"
	tokenKey    = "token"
)

// ErrKeychainUnavailable indicates that the system keychain is not available
var ErrKeychainUnavailable = errors.New("keychain is not available on this system")

// ErrNotFound indicates that the requested credential was not found
var ErrNotFound = errors.New("credential not found in keychain")

// TokenStore provides cross-platform API token storage
type TokenStore interface {
	StoreToken(serverURL, token string) error
	LoadToken(serverURL string) (string, error)
	DeleteToken(serverURL string) error
}

// DefaultTokenStore uses the system keychain via go-keyring
type DefaultTokenStore struct{}

// NewTokenStore creates a new keyring-backed token store
func NewTokenStore() TokenStore {
	return &DefaultTokenStore{}
}

// serverKey creates a unique key for a server URL using a truncated hash
func serverKey(serverURL string) string {
	hash := sha256.Sum256([]byte(serverURL))
	return hex.EncodeToString(hash[:8])
}

// StoreToken stores an API token for a server
func (k *DefaultTokenStore) StoreToken(serverURL, token string) error {
	key := fmt.Sprintf("%s:%s:%s", serviceName, serverKey(serverURL), tokenKey)
	err := keyring.Set(serviceName, key, token)
	if err != nil {
		if isKeychainUnavailable(err) {
			return ErrKeychainUnavailable
		}
		return fmt.Errorf("failed to store token in keychain: %w", err)
	}
	return nil
}

// LoadToken retrieves an API token for a server
func (k *DefaultTokenStore) LoadToken(serverURL string) (string, error) {
	key := fmt.Sprintf("%s:%s:%s", serviceName, serverKey(serverURL), tokenKey)
	token, err := keyring.Get(serviceName, key)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		if isKeychainUnavailable(err) {
			return "", ErrKeychainUnavailable
		}
		return "", fmt.Errorf("failed to load token from keychain: %w", err)
	}
	return token, nil
}

// DeleteToken removes an API token for a server
func (k *DefaultTokenStore) DeleteToken(serverURL string) error {
	key := fmt.Sprintf("%s:%s:%s", serviceName, serverKey(serverURL), tokenKey)
	err := keyring.Delete(serviceName, key)
	if err != nil {
		if isNotFound(err) {
			return nil // Already deleted, not an error
		}
		if isKeychainUnavailable(err) {
			return ErrKeychainUnavailable
		}
		return fmt.Errorf("failed to delete token from keychain: %w", err)
	}
	return nil
}

// ResolveToken finds the API token for a server, in priority order:
// PARAPET_TOKEN environment variable, the token from the server config,
// then the system keychain.
func ResolveToken(serverURL, configToken string) (string, error) {
	if envToken := os.Getenv("PARAPET_TOKEN"); envToken != "" {
		return envToken, nil
	}
	if configToken != "" {
		return configToken, nil
	}

	token, err := NewTokenStore().LoadToken(serverURL)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrKeychainUnavailable) {
			return "", fmt.Errorf("no API token found for %s", serverURL)
		}
		return "", err
	}
	return token, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, keyring.ErrNotFound) ||
		strings.Contains(err.Error(), "not found")
}

func isKeychainUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unsupported") ||
		strings.Contains(msg, "no such interface") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "keyring")
}
