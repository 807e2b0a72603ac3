package auth

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUserExists reports a signup against a taken username.
	ErrUserExists = errors.New("auth: username already registered")
	// ErrInvalidCredentials reports a failed login without detail.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidUsername reports a name that fails validation.
	ErrInvalidUsername = errors.New("auth: invalid username")
	// ErrWeakPassword reports a password below the minimum length.
	ErrWeakPassword = errors.New("auth: password too short")
)

const (
	maxUsernameLength = 24
	minPasswordLength = 6
)

type account struct {
	Username string
	Hash     []byte
}

// AccountManager keeps registered accounts in memory. All methods are safe
// for concurrent use.
type AccountManager struct {
	mu       sync.RWMutex
	accounts map[string]*account
	cost     int
}

// NewAccountManager constructs an empty registry using the default bcrypt cost.
func NewAccountManager() *AccountManager {
	return &AccountManager{
		accounts: make(map[string]*account),
		cost:     bcrypt.DefaultCost,
	}
}

// NormalizeUsername trims whitespace and applies NFC so visually identical
// names collide instead of coexisting.
func NormalizeUsername(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func validateUsername(name string) error {
	if name == "" || len(name) > maxUsernameLength {
		return ErrInvalidUsername
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return ErrInvalidUsername
	}
	return nil
}

// Register creates an account. The stored username is the normalized form.
func (m *AccountManager) Register(username, password string) error {
	username = NormalizeUsername(username)
	if err := validateUsername(username); err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.accounts[username]; exists {
		return ErrUserExists
	}
	m.accounts[username] = &account{Username: username, Hash: hash}
	return nil
}

// Authenticate verifies a username/password pair and returns the normalized
// username on success.
func (m *AccountManager) Authenticate(username, password string) (string, error) {
	username = NormalizeUsername(username)

	m.mu.RLock()
	acct, exists := m.accounts[username]
	m.mu.RUnlock()
	if !exists {
		// Burn a comparison so missing and wrong-password lookups cost
		// the same.
		bcrypt.CompareHashAndPassword(placeholderHash, []byte(password))
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acct.Hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return acct.Username, nil
}

// Exists reports whether the normalized username is registered.
func (m *AccountManager) Exists(username string) bool {
	username = NormalizeUsername(username)
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.accounts[username]
	return exists
}

var placeholderHash = mustHash("placeholder-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return hash
}
