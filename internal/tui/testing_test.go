package tui

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/internal/session"
	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

var testNow = time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestDeps() *deps {
	return &deps{
		ctx:        context.Background(),
		store:      session.New(storage.NewMemory(nil), nil),
		logger:     slog.New(slog.DiscardHandler),
		keys:       DefaultKeyMap,
		now:        func() time.Time { return testNow },
		staleAfter: domain.DefaultStaleAfter,
		copy:       func(string) error { return nil },
		open:       func(string) error { return nil },
	}
}

// newTestApp builds an App over st. c may be nil for tests that never run
// network commands.
func newTestApp(t *testing.T, st storage.Storage, c *client.Client) App {
	t.Helper()
	var auth session.Authenticator
	if c != nil {
		auth = c
	}
	store := session.New(st, auth)
	a := NewApp(context.Background(), store, c, "https://soporte.example.com",
		WithClock(func() time.Time { return testNow }),
		WithClipboard(func(string) error { return nil }),
		WithBrowser(func(string) error { return nil }),
	)
	t.Cleanup(a.Close)
	a.width = 100
	a.height = 40
	return a
}

// storedSession returns storage holding a logged-in user.
func storedSession(t *testing.T, u domain.UserProfile) *storage.Memory {
	t.Helper()
	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	return storage.NewMemory(map[string]string{domain.KeyToken: "T", domain.KeyUser: string(raw)})
}

func hydrated(t *testing.T, a App) (App, tea.Cmd) {
	t.Helper()
	return update(a, a.hydrate()())
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// newTestBackend serves routes like "GET /api/v1/tickets" and returns a
// client pointed at it.
func newTestBackend(t *testing.T, st storage.Storage, routes map[string]http.HandlerFunc) *client.Client {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, client.TokenFunc(func() (string, error) { return storage.Token(st) }))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // test helper
}

var (
	testAdmin      = domain.UserProfile{ID: 1, FirstName: "Ana", LastName: "Pérez", Email: "ana@lc.com", Role: domain.RoleAdmin}
	testTechnician = domain.UserProfile{ID: 2, FirstName: "Luis", LastName: "Soto", Email: "luis@lc.com", Role: domain.RoleTechnician}
	testAccountant = domain.UserProfile{ID: 3, FirstName: "Marta", LastName: "Ruiz", Email: "marta@lc.com", Role: domain.RoleAccountant}
)
