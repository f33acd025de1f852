// Package session holds the client's authentication state: a bearer token
// and the display username, persisted in a key-value Storage the same way a
// browser keeps them in local storage.
//
// A Session is created once and handed to the API client; nothing reads the
// token from anywhere else.
package session

import (
	"context"
	"errors"
	"fmt"

	"alumni/models"
)

// Storage keys. They match what the web front end keeps in local storage.
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// ErrEmptyToken is returned when beginning a session without a token.
var ErrEmptyToken = errors.New("session: empty token")

// Storage is a string key-value store. Implementations must be safe for
// concurrent use. GetItem reports ok=false for a missing key.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// State of the session state machine.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

type Session struct {
	storage Storage
}

func New(storage Storage) *Session {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Session{storage: storage}
}

// Token returns the stored token, or "" when anonymous.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, _, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *Session) Username(ctx context.Context) (string, error) {
	username, _, err := s.storage.GetItem(ctx, UsernameKey)
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return username, nil
}

// Load reads both keys at once.
func (s *Session) Load(ctx context.Context) (models.Session, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return models.Session{}, err
	}
	username, err := s.Username(ctx)
	if err != nil {
		return models.Session{}, err
	}
	return models.Session{Token: token, Username: username}, nil
}

func (s *Session) State(ctx context.Context) (State, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return Anonymous, err
	}
	if token == "" {
		return Anonymous, nil
	}
	return Authenticated, nil
}

// Authenticated is State folded to a bool; storage errors count as anonymous.
func (s *Session) Authenticated(ctx context.Context) bool {
	state, err := s.State(ctx)
	return err == nil && state == Authenticated
}

// Begin moves the session to Authenticated. An empty username removes any
// previously stored one.
func (s *Session) Begin(ctx context.Context, token, username string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.storage.SetItem(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if username == "" {
		if err := s.storage.RemoveItem(ctx, UsernameKey); err != nil {
			return fmt.Errorf("remove username: %w", err)
		}
		return nil
	}
	if err := s.storage.SetItem(ctx, UsernameKey, username); err != nil {
		return fmt.Errorf("store username: %w", err)
	}
	return nil
}

// Clear moves the session to Anonymous, removing both keys. Both removals
// are attempted even if the first fails.
func (s *Session) Clear(ctx context.Context) error {
	return errors.Join(
		s.storage.RemoveItem(ctx, TokenKey),
		s.storage.RemoveItem(ctx, UsernameKey),
	)
}
