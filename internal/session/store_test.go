package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

type fakeAuth struct {
	resp  *domain.AuthResponse
	err   error
	calls int
}

func (f *fakeAuth) Login(_ context.Context, _ domain.Credentials) (*domain.AuthResponse, error) {
	f.calls++
	return f.resp, f.err
}

// failingStorage rejects writes.
type failingStorage struct{ storage.Memory }

func (f *failingStorage) SetMany(map[string]string) error { return errors.New("disk full") }

func adminUser() domain.UserProfile {
	return domain.UserProfile{ID: 1, FirstName: "Ana", LastName: "Pérez", Email: "a@b.com", Role: domain.RoleAdmin}
}

func encodeUser(t *testing.T, u domain.UserProfile) string {
	t.Helper()
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	return string(raw)
}

func TestInitialize_RestoresStoredSession(t *testing.T) {
	u := adminUser()
	st := storage.NewMemory(map[string]string{
		domain.KeyToken: "T",
		domain.KeyUser:  encodeUser(t, u),
	})
	s := New(st, nil)
	assert.False(t, s.IsReady())

	s.Initialize()

	assert.True(t, s.IsReady())
	snap := s.Snapshot()
	assert.Equal(t, "T", snap.Token)
	require.NotNil(t, snap.User)
	assert.Equal(t, u, *snap.User)
	assert.True(t, s.IsAuthenticated())
}

func TestInitialize_CorruptUserWipesStorage(t *testing.T) {
	for _, raw := range []string{"{not json", "[1,2]", `"string"`, "null", "{}", `{"role":"admin"}`} {
		t.Run(raw, func(t *testing.T) {
			st := storage.NewMemory(map[string]string{
				domain.KeyToken: "T",
				domain.KeyUser:  raw,
				"other":         "kept?",
			})
			s := New(st, nil)
			s.Initialize()

			assert.True(t, s.IsReady())
			assert.Equal(t, domain.Session{}, s.Snapshot())
			assert.False(t, s.IsAuthenticated())
			assert.Equal(t, 0, st.Len(), "storage must be empty after a corrupt hydrate")
		})
	}
}

func TestInitialize_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
	st := storage.NewFile(path)

	s := New(st, nil)
	s.Initialize()

	assert.True(t, s.IsReady())
	assert.False(t, s.IsAuthenticated())
	_, ok, err := st.Get(domain.KeyToken)
	require.NoError(t, err, "corrupt file should have been removed")
	assert.False(t, ok)
}

func TestInitialize_PartialStorage(t *testing.T) {
	st := storage.NewMemory(map[string]string{domain.KeyToken: "T"})
	s := New(st, nil)
	s.Initialize()

	assert.True(t, s.IsReady())
	assert.False(t, s.IsAuthenticated(), "a token without a user is not a session")
	assert.Nil(t, s.User())
}

func TestReadyChannelClosesOnce(t *testing.T) {
	s := New(storage.NewMemory(nil), nil)
	s.Initialize()
	s.Initialize()
	select {
	case <-s.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready() not closed")
	}
}

func TestLogin_PersistsTokenAndUser(t *testing.T) {
	u := adminUser()
	auth := &fakeAuth{resp: &domain.AuthResponse{Token: "T", User: &u}}
	st := storage.NewMemory(nil)
	s := New(st, auth)
	s.Initialize()

	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "a@b.com", Password: "x"}))

	assert.Equal(t, domain.Session{Token: "T", User: &u}, s.Snapshot())
	tok, _, _ := st.Get(domain.KeyToken)
	assert.Equal(t, "T", tok)
	rawUser, _, _ := st.Get(domain.KeyUser)
	var stored domain.UserProfile
	require.NoError(t, json.Unmarshal([]byte(rawUser), &stored))
	assert.Equal(t, u, stored)
}

func TestLogin_ReplacesPriorSession(t *testing.T) {
	old := domain.UserProfile{ID: 9, Role: domain.RoleAccountant}
	st := storage.NewMemory(map[string]string{
		domain.KeyToken: "OLD",
		domain.KeyUser:  encodeUser(t, old),
	})
	u := adminUser()
	s := New(st, &fakeAuth{resp: &domain.AuthResponse{Token: "NEW", User: &u}})
	s.Initialize()
	require.Equal(t, "OLD", s.Token())

	require.NoError(t, s.Login(context.Background(), domain.Credentials{}))
	assert.Equal(t, "NEW", s.Token())
	assert.Equal(t, int64(1), s.User().ID)
}

func TestLogin_ErrorReturnedUnchanged(t *testing.T) {
	want := errors.New("Credenciales inválidas")
	auth := &fakeAuth{err: want}
	st := storage.NewMemory(nil)
	s := New(st, auth)

	err := s.Login(context.Background(), domain.Credentials{})
	assert.Same(t, want, err)
	assert.Equal(t, 1, auth.calls, "no retry")
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 0, st.Len())
}

func TestLogin_IncompleteResponse(t *testing.T) {
	s := New(storage.NewMemory(nil), &fakeAuth{resp: &domain.AuthResponse{Token: "T"}})
	require.Error(t, s.Login(context.Background(), domain.Credentials{}))
	assert.False(t, s.IsAuthenticated())
}

func TestLogin_StorageFailureKeepsMemory(t *testing.T) {
	u := adminUser()
	s := New(&failingStorage{}, &fakeAuth{resp: &domain.AuthResponse{Token: "T", User: &u}})
	require.Error(t, s.Login(context.Background(), domain.Credentials{}))
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestLogout_ClearsEverything(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
	}{
		{"logged in", map[string]string{domain.KeyToken: "T", domain.KeyUser: `{"id":1}`}},
		{"already logged out", nil},
		{"half state", map[string]string{domain.KeyToken: "T"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := storage.NewMemory(tt.stored)
			s := New(st, nil)
			s.Initialize()

			require.NoError(t, s.Logout())
			assert.Equal(t, domain.Session{}, s.Snapshot())
			assert.Equal(t, 0, st.Len())
		})
	}
}

func TestSetUser_MemoryOnly(t *testing.T) {
	u := adminUser()
	u.MustChangePassword = true
	st := storage.NewMemory(map[string]string{
		domain.KeyToken: "T",
		domain.KeyUser:  encodeUser(t, u),
	})
	s := New(st, nil)
	s.Initialize()

	updated := u
	updated.MustChangePassword = false
	s.SetUser(updated)

	assert.False(t, s.User().MustChangePassword)
	assert.Equal(t, "T", s.Token(), "token unchanged")
	raw, _, _ := st.Get(domain.KeyUser)
	assert.Equal(t, encodeUser(t, u), raw, "storage keeps the previous record")
}

func TestSaveUser_Persists(t *testing.T) {
	u := adminUser()
	u.MustChangePassword = true
	st := storage.NewMemory(map[string]string{
		domain.KeyToken: "T",
		domain.KeyUser:  encodeUser(t, u),
	})
	s := New(st, nil)
	s.Initialize()

	updated := u
	updated.MustChangePassword = false
	require.NoError(t, s.SaveUser(updated))

	// A fresh store hydrated from the same storage sees the update.
	reloaded := New(st, nil)
	reloaded.Initialize()
	require.NotNil(t, reloaded.User())
	assert.False(t, reloaded.User().MustChangePassword)
	assert.Equal(t, "T", reloaded.Token())
}

func TestUserReturnsCopy(t *testing.T) {
	u := adminUser()
	s := New(storage.NewMemory(nil), &fakeAuth{resp: &domain.AuthResponse{Token: "T", User: &u}})
	require.NoError(t, s.Login(context.Background(), domain.Credentials{}))

	got := s.User()
	got.FirstName = "mutated"
	u.LastName = "mutated"
	assert.Equal(t, "Ana", s.User().FirstName)
	assert.Equal(t, "Pérez", s.User().LastName)
}

func TestSubscribe(t *testing.T) {
	u := adminUser()
	s := New(storage.NewMemory(nil), &fakeAuth{resp: &domain.AuthResponse{Token: "T", User: &u}})
	ch, cancel := s.Subscribe()
	defer cancel()

	require.NoError(t, s.Login(context.Background(), domain.Credentials{}))
	require.NoError(t, s.Logout())

	// Buffered with latest-wins: only the logout snapshot remains.
	select {
	case snap := <-ch:
		assert.Equal(t, domain.Session{}, snap)
	case <-time.After(time.Second):
		t.Fatal("no session update received")
	}

	cancel()
	_, open := <-ch
	assert.False(t, open, "channel closed after unsubscribe")
	cancel() // idempotent
}
