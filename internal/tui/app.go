// Package tui is the interactive terminal client.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lcconsultores/ticketera/internal/browser"
	"github.com/lcconsultores/ticketera/internal/router"
	"github.com/lcconsultores/ticketera/internal/session"
	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

// deps is shared by every screen.
type deps struct {
	ctx        context.Context
	client     *client.Client
	store      *session.Store
	logger     *slog.Logger
	keys       KeyMap
	now        func() time.Time
	staleAfter time.Duration
	copy       func(string) error
	open       func(string) error
}

// Option configures the App.
type Option func(*deps)

// WithLogger sets the logger. The TUI owns the terminal, so it should not
// write to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(d *deps) { d.logger = l }
}

// WithStaleAfter sets how long an unresolved ticket may wait before staff
// are notified.
func WithStaleAfter(threshold time.Duration) Option {
	return func(d *deps) { d.staleAfter = threshold }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(d *deps) { d.copy = write }
}

// WithBrowser replaces the URL opener used by the help overlay.
func WithBrowser(open func(string) error) Option {
	return func(d *deps) { d.open = open }
}

// hydratedMsg fires once the session store has loaded durable storage.
type hydratedMsg struct{}

// sessionChangedMsg carries a session published by the store.
type sessionChangedMsg struct {
	session domain.Session
}

// App is the root Bubbletea model. It drives the router from session events
// and renders the screen the router selects.
type App struct {
	deps        *deps
	router      *router.Router
	spinner     spinner.Model
	login       loginModel
	user        userModel
	admin       adminModel
	sessions    <-chan domain.Session
	unsubscribe func()
	webURL      string
	helpOpen    bool
	helpCursor  int
	width       int
	height      int
}

// NewApp creates the TUI. webURL is offered in the help overlay. Call Close
// when the program exits.
func NewApp(ctx context.Context, store *session.Store, c *client.Client, webURL string, opts ...Option) App {
	d := &deps{
		ctx:        ctx,
		client:     c,
		store:      store,
		logger:     slog.New(slog.DiscardHandler),
		keys:       DefaultKeyMap,
		now:        time.Now,
		staleAfter: domain.DefaultStaleAfter,
		copy:       clipboard.WriteAll,
	}
	d.open = func(u string) error { return browser.Open(d.ctx, u) }
	for _, opt := range opts {
		opt(d)
	}
	sessions, unsubscribe := store.Subscribe()
	return App{
		deps:        d,
		router:      router.New(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(accentStyle)),
		login:       newLoginModel(d),
		sessions:    sessions,
		unsubscribe: unsubscribe,
		webURL:      webURL,
	}
}

// Close stops listening to the session store.
func (a App) Close() {
	a.unsubscribe()
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.hydrate(), a.waitSession())
}

func (a App) hydrate() tea.Cmd {
	store := a.deps.store
	return func() tea.Msg {
		store.Initialize()
		return hydratedMsg{}
	}
}

func (a App) waitSession() tea.Cmd {
	ch := a.sessions
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return sessionChangedMsg{session: s}
	}
}

// Screen is the screen the router currently selects.
func (a App) Screen() router.Screen {
	return a.router.Screen(a.deps.store.User())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(1) + blank(1) + help(1)
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 3}
		a.user, _ = a.user.Update(bodyMsg)
		a.admin, _ = a.admin.Update(bodyMsg)
		return a, nil

	case spinner.TickMsg:
		if a.router.State() != router.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case hydratedMsg:
		state, err := a.router.Fire(router.Hydrated, a.deps.store.Snapshot())
		if err != nil {
			a.deps.logger.Warn("unexpected hydrate", "error", err)
			return a, nil
		}
		if state == router.Authenticated {
			return a.enterDashboard()
		}
		return a, nil

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err != nil {
			a.deps.logger.Info("login failed", "error", msg.err)
			return a, nil
		}
		if _, err := a.router.Fire(router.LoginSucceeded, a.deps.store.Snapshot()); err != nil {
			a.deps.logger.Warn("unexpected login", "error", err)
			return a, nil
		}
		return a.enterDashboard()

	case sessionChangedMsg:
		// The session was cleared outside the logout key, e.g. by another
		// process sharing the store.
		if !msg.session.Authenticated() && a.router.State() == router.Authenticated {
			return a.toLogin(a.waitSession())
		}
		return a, a.waitSession()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.helpOpen {
			return a.updateHelp(msg)
		}
		k := a.deps.keys
		if key.Matches(msg, k.Logout) && a.router.State() == router.Authenticated {
			return a.logout()
		}
		if !a.isEditing() {
			switch {
			case key.Matches(msg, k.Quit):
				return a, tea.Quit
			case key.Matches(msg, k.Help):
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	switch a.Screen() {
	case router.ScreenLogin:
		a.login, cmd = a.login.Update(msg)
	case router.ScreenUser:
		a.user, cmd = a.user.Update(msg)
	case router.ScreenAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := helpItems(a.webURL)
	switch msg.String() {
	case "?", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(items)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		if item := items[a.helpCursor]; item.url != "" {
			if err := a.deps.open(item.url); err != nil {
				a.deps.logger.Warn("open browser", "url", item.url, "error", err)
			}
		}
	}
	return a, nil
}

// enterDashboard builds the dashboard the router selects for the current
// user and starts its loads.
func (a App) enterDashboard() (tea.Model, tea.Cmd) {
	user := a.deps.store.User()
	size := tea.WindowSizeMsg{Width: a.width, Height: a.height - 3}
	var cmd tea.Cmd
	switch a.Screen() {
	case router.ScreenAdmin:
		a.admin = newAdminModel(a.deps, user)
		a.admin, _ = a.admin.Update(size)
		a.admin, cmd = a.admin.start()
	case router.ScreenUser:
		a.user = newUserModel(a.deps, user)
		a.user, _ = a.user.Update(size)
		a.user, cmd = a.user.start()
	}
	return a, cmd
}

func (a App) logout() (tea.Model, tea.Cmd) {
	if err := a.deps.store.Logout(); err != nil {
		a.deps.logger.Error("logout", "error", err)
	}
	return a.toLogin(nil)
}

func (a App) toLogin(next tea.Cmd) (tea.Model, tea.Cmd) {
	if _, err := a.router.Fire(router.LoggedOut, a.deps.store.Snapshot()); err != nil {
		a.deps.logger.Warn("unexpected logout", "error", err)
	}
	a.login = newLoginModel(a.deps)
	a.user = userModel{}
	a.admin = adminModel{}
	a.helpOpen = false
	return a, next
}

func (a App) isEditing() bool {
	switch a.Screen() {
	case router.ScreenLogin:
		return true
	case router.ScreenUser:
		return a.user.isEditing()
	case router.ScreenAdmin:
		return a.admin.isEditing()
	}
	return false
}

func (a App) View() string {
	screen := a.Screen()
	if screen == router.ScreenLoading {
		return fmt.Sprintf("\n  %s %s\n", a.spinner.View(), dimStyle.Render("cargando sesión..."))
	}

	header := " " + titleStyle.Render("TICKETERA")
	if user := a.deps.store.User(); user != nil && screen != router.ScreenLogin {
		info := metaStyle.Render(user.FullName() + " · " + strings.ToUpper(string(user.Role)))
		pad := a.width - lipgloss.Width(header) - lipgloss.Width(info) - 1
		if pad < 2 {
			pad = 2
		}
		header += strings.Repeat(" ", pad) + info
	}

	var body, help string
	switch screen {
	case router.ScreenLogin:
		body = a.login.View()
		help = a.login.helpKeys()
	case router.ScreenUser:
		body = a.user.View()
		help = a.user.helpKeys()
	case router.ScreenAdmin:
		body = a.admin.View()
		help = a.admin.helpKeys()
	}
	if a.helpOpen {
		body = helpView(a.helpCursor, helpItems(a.webURL))
		help = helpBar(helpEntry("j/k", "navegar"), helpEntry("enter", "abrir"), helpEntry("esc", "cerrar"))
	}

	chrome := 3
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n\n%s", header, body, help)
}
