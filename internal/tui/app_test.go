package tui

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lcconsultores/ticketera/internal/router"
	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

func TestAppStartsLoading(t *testing.T) {
	a := newTestApp(t, storage.NewMemory(nil), nil)
	if a.Screen() != router.ScreenLoading {
		t.Fatalf("expected loading screen before hydrate, got %s", a.Screen())
	}
	if !strings.Contains(a.View(), "cargando sesión") {
		t.Errorf("expected spinner text in loading view, got:\n%s", a.View())
	}
}

func TestAppHydrateAnonymousShowsLogin(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storage.NewMemory(nil), nil))
	if a.Screen() != router.ScreenLogin {
		t.Fatalf("expected login screen, got %s", a.Screen())
	}
	if !strings.Contains(a.View(), "LC Consultores") {
		t.Errorf("expected login view, got:\n%s", a.View())
	}
}

func TestAppHydrateRestoresSession(t *testing.T) {
	tests := []struct {
		name string
		user domain.UserProfile
		want router.Screen
	}{
		{"admin", testAdmin, router.ScreenAdmin},
		{"technician", testTechnician, router.ScreenAdmin},
		{"accountant", testAccountant, router.ScreenUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, cmd := hydrated(t, newTestApp(t, storedSession(t, tc.user), nil))
			if a.Screen() != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, a.Screen())
			}
			if cmd == nil {
				t.Error("expected an initial load command after restoring a session")
			}
		})
	}
}

func TestAppLoginToAdminScreen(t *testing.T) {
	st := storage.NewMemory(nil)
	var ticketAuth atomic.Value
	c := newTestBackend(t, st, map[string]http.HandlerFunc{
		"POST /api/v1/auth/login": func(w http.ResponseWriter, r *http.Request) {
			var creds domain.Credentials
			json.NewDecoder(r.Body).Decode(&creds) //nolint:errcheck // test server
			if creds.Email != "ana@lc.com" || creds.Password != "secreto" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"token": "T", "user": testAdmin})
		},
		"GET /api/v1/tickets": func(w http.ResponseWriter, r *http.Request) {
			ticketAuth.Store(r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, map[string]any{"tickets": []domain.Ticket{
				{ID: 7, Title: "Impresora atascada", Status: domain.StatusOpen, Priority: domain.PriorityHigh, CreatedAt: testNow},
			}})
		},
	})
	a, _ := hydrated(t, newTestApp(t, st, c))

	a, _ = update(a, keyRunes("ana@lc.com"))
	a, _ = update(a, keyType(tea.KeyTab))
	a, _ = update(a, keyRunes("secreto"))
	a, cmd := update(a, keyType(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected login command on enter")
	}
	a, cmd = update(a, cmd())
	if a.Screen() != router.ScreenAdmin {
		t.Fatalf("expected admin screen after login, got %s", a.Screen())
	}
	if tok, _, _ := st.Get(domain.KeyToken); tok != "T" {
		t.Errorf("token not persisted, got %q", tok)
	}
	if cmd == nil {
		t.Fatal("expected ticket load after login")
	}
	a, _ = update(a, cmd())
	if got := ticketAuth.Load(); got != "Bearer T" {
		t.Errorf("Authorization = %v, want %q", got, "Bearer T")
	}
	if !strings.Contains(a.View(), "Impresora atascada") {
		t.Errorf("expected ticket in admin view, got:\n%s", a.View())
	}
}

func TestAppLoginErrorShownVerbatim(t *testing.T) {
	st := storage.NewMemory(nil)
	c := newTestBackend(t, st, map[string]http.HandlerFunc{
		"POST /api/v1/auth/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Credenciales inválidas"})
		},
	})
	a, _ := hydrated(t, newTestApp(t, st, c))
	a, _ = update(a, keyRunes("ana@lc.com"))
	a, _ = update(a, keyType(tea.KeyTab))
	a, _ = update(a, keyRunes("mala"))
	a, cmd := update(a, keyType(tea.KeyEnter))
	a, _ = update(a, cmd())

	if a.Screen() != router.ScreenLogin {
		t.Fatalf("expected to stay on login, got %s", a.Screen())
	}
	if !strings.Contains(a.View(), "Credenciales inválidas") {
		t.Errorf("expected server message in view, got:\n%s", a.View())
	}
	if st.Len() != 0 {
		t.Errorf("storage written on failed login: %d keys", st.Len())
	}
}

func TestAppLoginRequiresFields(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storage.NewMemory(nil), nil))
	a, _ = update(a, keyType(tea.KeyTab))
	a, cmd := update(a, keyType(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no login command with empty fields")
	}
	if !strings.Contains(a.View(), "Ingrese su correo") {
		t.Errorf("expected validation message, got:\n%s", a.View())
	}
}

func TestAppLogoutReturnsToLogin(t *testing.T) {
	st := storedSession(t, testAdmin)
	a, _ := hydrated(t, newTestApp(t, st, nil))
	a, _ = update(a, keyType(tea.KeyCtrlL))
	if a.Screen() != router.ScreenLogin {
		t.Fatalf("expected login after ctrl+l, got %s", a.Screen())
	}
	if st.Len() != 0 {
		t.Errorf("expected storage cleared after logout, %d keys left", st.Len())
	}
}

func TestAppSessionClearedElsewhere(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storedSession(t, testAdmin), nil))
	a, cmd := update(a, sessionChangedMsg{session: domain.Session{}})
	if a.Screen() != router.ScreenLogin {
		t.Fatalf("expected login after session cleared, got %s", a.Screen())
	}
	if cmd == nil {
		t.Error("expected the session watch to be re-armed")
	}
}

func TestAppQuitOnQ(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storedSession(t, testAdmin), nil))
	_, cmd := update(a, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q'")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppQTypesOnLogin(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storage.NewMemory(nil), nil))
	a, _ = update(a, keyRunes("q"))
	if got := a.login.form.value(loginFieldEmail); got != "q" {
		t.Errorf("expected 'q' typed into email, got %q", got)
	}
}

func TestAppTechnicianCannotOpenUsers(t *testing.T) {
	a, _ := hydrated(t, newTestApp(t, storedSession(t, testTechnician), nil))
	a, _ = update(a, keyRunes("2"))
	if a.admin.view != viewControl {
		t.Errorf("expected technician to stay on control, got view %d", a.admin.view)
	}
	if strings.Contains(a.View(), "Usuarios") {
		t.Error("technician tab bar should not list Usuarios")
	}
}

func TestAppAdminTabSwitching(t *testing.T) {
	tests := []struct {
		key  string
		want view
	}{
		{"2", viewUsers},
		{"3", viewIncidencias},
		{"4", viewProfile},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			a, _ := hydrated(t, newTestApp(t, storedSession(t, testAdmin), nil))
			a, _ = update(a, keyRunes(tc.key))
			if a.admin.view != tc.want {
				t.Errorf("after key %q: expected view=%d, got %d", tc.key, tc.want, a.admin.view)
			}
		})
	}
}

func TestAppHelpOverlayOpensBrowser(t *testing.T) {
	var opened string
	a, _ := hydrated(t, newTestApp(t, storedSession(t, testAdmin), nil))
	a.deps.open = func(u string) error { opened = u; return nil }

	a, _ = update(a, keyRunes("?"))
	if !a.helpOpen {
		t.Fatal("expected help overlay open")
	}
	a, _ = update(a, keyType(tea.KeyEnter))
	if opened != "https://soporte.example.com" {
		t.Errorf("opened %q, want web URL", opened)
	}
	a, _ = update(a, keyType(tea.KeyEsc))
	if a.helpOpen {
		t.Error("expected help overlay closed after esc")
	}
}

// Two loads are issued and their responses arrive in reverse order. The
// list must reflect the most recently issued request.
func TestAppConcurrentTicketLoadsLatestWins(t *testing.T) {
	for _, order := range []string{"in order", "reversed"} {
		t.Run(order, func(t *testing.T) {
			st := storedSession(t, testAdmin)
			var calls atomic.Int32
			c := newTestBackend(t, st, map[string]http.HandlerFunc{
				"GET /api/v1/tickets": func(w http.ResponseWriter, r *http.Request) {
					title := "primera"
					if calls.Add(1) == 2 {
						title = "segunda"
					}
					writeJSON(w, http.StatusOK, []domain.Ticket{{ID: 1, Title: title, Status: domain.StatusOpen}})
				},
			})
			a, first := hydrated(t, newTestApp(t, st, c))
			a, second := update(a, keyRunes("r"))
			if first == nil || second == nil {
				t.Fatal("expected two load commands")
			}
			msg1, msg2 := first(), second()
			if order == "reversed" {
				msg1, msg2 = msg2, msg1
			}
			a, _ = update(a, msg1)
			a, _ = update(a, msg2)

			got := a.admin.control.tickets
			if len(got) != 1 || got[0].Title != "segunda" {
				t.Errorf("tickets = %+v, want the second request's result", got)
			}
			if a.admin.control.loading {
				t.Error("expected loading cleared")
			}
		})
	}
}

func TestAppForcedPasswordChange(t *testing.T) {
	forced := testAccountant
	forced.MustChangePassword = true
	st := storedSession(t, forced)
	var body domain.PasswordChange
	c := newTestBackend(t, st, map[string]http.HandlerFunc{
		"PUT /api/v1/auth/password": func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck // test server
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		},
		"GET /api/v1/tickets/me": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Ticket{})
		},
	})
	a, cmd := hydrated(t, newTestApp(t, st, c))
	if a.user.view != viewProfile {
		t.Fatalf("expected forced profile view, got %d", a.user.view)
	}
	if cmd != nil {
		t.Error("expected no loads while the password is temporary")
	}

	a, _ = update(a, keyRunes("3"))
	if a.user.view != viewProfile {
		t.Fatalf("tab switch allowed while locked, view %d", a.user.view)
	}

	a, _ = update(a, keyRunes("clave"))
	a, _ = update(a, keyType(tea.KeyTab))
	a, _ = update(a, keyRunes("3clave"))
	a, cmd = update(a, keyType(tea.KeyCtrlS))
	if cmd == nil {
		t.Fatalf("expected password command, view:\n%s", a.View())
	}
	a, cmd = update(a, cmd())

	if body.NewPassword != "3clave" || body.OldPassword != "" {
		t.Errorf("sent %+v, want new password and empty old password", body)
	}
	if a.user.view != viewHome {
		t.Errorf("expected home after forced change, got %d", a.user.view)
	}
	if cmd == nil {
		t.Error("expected loads to start after unlock")
	}
	raw, _, _ := st.Get(domain.KeyUser)
	var stored domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.MustChangePassword {
		t.Error("expected mustChangePassword cleared in storage")
	}
}
