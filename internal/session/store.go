// Package session holds the client's authentication state and mirrors it to
// durable storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// Authenticator exchanges credentials for a session. *client.Client
// satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error)
}

// Store is the single source of truth for authentication state. It is safe
// for concurrent use; concurrent mutations are last-write-wins.
type Store struct {
	storage storage.Storage
	auth    Authenticator
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
	user  *domain.UserProfile

	readyOnce sync.Once
	ready     chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan domain.Session
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New returns an empty, not-yet-ready store.
func New(st storage.Storage, auth Authenticator, opts ...Option) *Store {
	s := &Store{
		storage: st,
		auth:    auth,
		logger:  slog.New(slog.DiscardHandler),
		ready:   make(chan struct{}),
		subs:    make(map[int]chan domain.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize hydrates the store from durable storage and marks it ready.
// A stored user that cannot be decoded wipes the session and storage; the
// failure is logged, never returned.
func (s *Store) Initialize() {
	defer s.markReady()

	token, user, err := s.readStored()
	if err != nil {
		s.logger.Warn("discarding corrupt stored session", "error", err)
		s.set("", nil)
		if clearErr := s.storage.Clear(); clearErr != nil {
			s.logger.Error("clear storage", "error", clearErr)
		}
		return
	}
	if token == "" || user == nil {
		return
	}
	s.set(token, user)
	s.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
}

func (s *Store) readStored() (string, *domain.UserProfile, error) {
	token, hasToken, err := s.storage.Get(domain.KeyToken)
	if err != nil {
		return "", nil, err
	}
	rawUser, hasUser, err := s.storage.Get(domain.KeyUser)
	if err != nil {
		return "", nil, err
	}
	if !hasToken || !hasUser || token == "" {
		return "", nil, nil
	}
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return "", nil, fmt.Errorf("decode stored user: %w", err)
	}
	if user.ID == 0 {
		return "", nil, errors.New("stored user has no id")
	}
	return token, &user, nil
}

// Ready is closed once Initialize has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// IsReady reports whether Initialize has finished.
func (s *Store) IsReady() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

func (s *Store) markReady() {
	s.readyOnce.Do(func() { close(s.ready) })
}

// Login authenticates and replaces the session. Authenticator errors are
// returned unchanged. Storage is written before memory so a failed write
// leaves the previous session in place.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) error {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return err
	}
	rawUser, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("session.Login: encode user: %w", err)
	}
	if err := s.storage.SetMany(map[string]string{
		domain.KeyToken: resp.Token,
		domain.KeyUser:  string(rawUser),
	}); err != nil {
		return fmt.Errorf("session.Login: persist: %w", err)
	}
	user := *resp.User
	s.set(resp.Token, &user)
	s.logger.Info("logged in", "user_id", user.ID, "role", user.Role)
	return nil
}

// Logout clears the session locally. No server call is made.
func (s *Store) Logout() error {
	s.set("", nil)
	if err := s.storage.Remove(domain.KeyToken, domain.KeyUser); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	s.logger.Info("logged out")
	return nil
}

// SetUser replaces the in-memory user only. Storage keeps the previous
// record until the next login or SaveUser.
func (s *Store) SetUser(user domain.UserProfile) {
	s.mu.Lock()
	s.user = &user
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// SaveUser replaces the user in memory and in storage, leaving the token
// unchanged.
func (s *Store) SaveUser(user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session.SaveUser: encode user: %w", err)
	}
	if err := s.storage.SetMany(map[string]string{domain.KeyUser: string(raw)}); err != nil {
		return fmt.Errorf("session.SaveUser: %w", err)
	}
	s.SetUser(user)
	return nil
}

// IsAuthenticated is true iff a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the in-memory token.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user, or nil.
func (s *Store) User() *domain.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Snapshot returns a consistent copy of the session.
func (s *Store) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Session {
	snap := domain.Session{Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) set(token string, user *domain.UserProfile) {
	s.mu.Lock()
	s.token = token
	s.user = user
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(snap)
}

// Subscribe returns a channel that receives the session after every
// mutation. Slow readers only see the latest value. Call the returned
// function to unsubscribe.
func (s *Store) Subscribe() (<-chan domain.Session, func()) {
	ch := make(chan domain.Session, 1)
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(snap domain.Session) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		// Drop a stale pending value so the newest one fits.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}
