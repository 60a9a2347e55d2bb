// Package auth issues the login tokens the client presents before it is
// allowed near the signaling endpoint. Accounts live in memory for the
// process lifetime, like the rooms they guard.
package auth

import (
	"encoding/base64"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/gauravkharai149-boop/voice-roooom/internal/mail"
)

var (
	ErrFieldsRequired     = errors.New("Email and password are required")
	ErrAlreadyRegistered  = errors.New("Email already registered")
	ErrInvalidCredentials = errors.New("Invalid credentials")
)

// IsClientError reports whether err should map to a 4xx status.
func IsClientError(err error) bool {
	return errors.Is(err, ErrFieldsRequired) ||
		errors.Is(err, ErrAlreadyRegistered) ||
		errors.Is(err, ErrInvalidCredentials)
}

type account struct {
	email        string
	passwordHash []byte
	verified     bool
}

type Service struct {
	mu       sync.RWMutex
	accounts map[string]*account
	mailer   mail.Sender
}

func NewService(mailer mail.Sender) *Service {
	if mailer == nil {
		mailer = mail.Disabled{}
	}
	return &Service{
		accounts: make(map[string]*account),
		mailer:   mailer,
	}
}

// Register hashes the password and stores the account. Accounts are
// auto-verified; the welcome mail is best-effort when SMTP is configured.
func (s *Service) Register(email, password string) error {
	if email == "" || password == "" {
		return ErrFieldsRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.accounts[email]; exists {
		s.mu.Unlock()
		return ErrAlreadyRegistered
	}
	s.accounts[email] = &account{email: email, passwordHash: hash, verified: true}
	s.mu.Unlock()

	log.Info().Str("module", "auth").Str("email", email).Msg("user registered")

	if err := s.mailer.SendWelcome(email); err != nil {
		log.Warn().Err(err).Str("module", "auth").Str("email", email).Msg("welcome mail failed")
	}
	return nil
}

// Login compares the password and returns an opaque bearer token.
func (s *Service) Login(email, password string) (string, error) {
	s.mu.RLock()
	acc, ok := s.accounts[email]
	s.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return base64.StdEncoding.EncodeToString([]byte(email)), nil
}
