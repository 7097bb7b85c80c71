package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/lcconsultores/ticketera/internal/browser"
	"github.com/lcconsultores/ticketera/internal/config"
	"github.com/lcconsultores/ticketera/internal/session"
	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/pkg/client"
	"github.com/lcconsultores/ticketera/pkg/domain"
)

var errNotLoggedIn = errors.New("no hay sesión activa; ejecute 'ticketera login'")

// cli runs the non-interactive subcommands.
type cli struct {
	cfg     *config.Config
	client  *client.Client
	store   *session.Store
	logger  *slog.Logger
	in      *bufio.Reader
	stdin   io.Reader
	out     io.Writer
	openURL func(ctx context.Context, url string) error
}

func newCLI(cfg *config.Config, st storage.Storage, logger *slog.Logger, stdin io.Reader, stdout io.Writer) *cli {
	c := newClient(cfg, st, logger)
	store := session.New(st, c, session.WithLogger(logger))
	store.Initialize()
	return &cli{
		cfg:     cfg,
		client:  c,
		store:   store,
		logger:  logger,
		in:      bufio.NewReader(stdin),
		stdin:   stdin,
		out:     stdout,
		openURL: browser.Open,
	}
}

func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptPassword reads without echo when stdin is a terminal.
func (c *cli) promptPassword(label string) (string, error) {
	f, ok := c.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return c.prompt(label)
	}
	fmt.Fprint(c.out, label)
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func (c *cli) login(ctx context.Context) error {
	email, err := c.prompt("Correo: ")
	if err != nil {
		return err
	}
	password, err := c.promptPassword("Contraseña: ")
	if err != nil {
		return err
	}
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if creds.Email == "" || creds.Password == "" {
		return errors.New("ingrese su correo y contraseña")
	}
	if err := c.store.Login(ctx, creds); err != nil {
		return err
	}
	u := c.store.User()
	fmt.Fprintf(c.out, "Sesión iniciada como %s (%s)\n", u.FullName(), u.Role)
	if u.MustChangePassword {
		fmt.Fprintln(c.out, "Debe cambiar su contraseña temporal: ejecute 'ticketera' para continuar.")
	}
	return nil
}

func (c *cli) logout() error {
	if !c.store.IsAuthenticated() {
		fmt.Fprintln(c.out, "No hay sesión activa.")
		return c.store.Logout()
	}
	if err := c.store.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Sesión cerrada.")
	return nil
}

func (c *cli) whoami() error {
	u := c.store.User()
	if u == nil {
		return errNotLoggedIn
	}
	fmt.Fprintf(c.out, "%s <%s>\nrol: %s\n", u.FullName(), u.Email, u.Role)
	if u.MustChangePassword {
		fmt.Fprintln(c.out, "contraseña temporal pendiente de cambio")
	}
	return nil
}

func (c *cli) tickets(ctx context.Context, all bool) error {
	u := c.store.User()
	if u == nil {
		return errNotLoggedIn
	}
	var (
		list []domain.Ticket
		err  error
	)
	if all {
		if !u.IsStaff() {
			return errors.New("--all requiere un usuario administrador o técnico")
		}
		list, err = c.client.ListTickets(ctx)
	} else {
		list, err = c.client.MyTickets(ctx)
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(c.out, "No hay tickets.")
		return nil
	}
	fmt.Fprintln(c.out, ticketTable(list, all, time.Now(), c.cfg.StaleAfter))
	return nil
}

func (c *cli) library(ctx context.Context, args []string) error {
	if !c.store.IsAuthenticated() {
		return errNotLoggedIn
	}
	items, err := c.client.PublicIncidencias(ctx)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	items = domain.FilterIncidencias(items, query)
	if len(items) == 0 {
		if query != "" {
			fmt.Fprintf(c.out, "Sin resultados para %q.\n", query)
		} else {
			fmt.Fprintln(c.out, "La biblioteca está vacía.")
		}
		return nil
	}
	writeLibrary(c.out, items)
	return nil
}

func (c *cli) open(ctx context.Context) error {
	url := c.cfg.FrontendURL()
	if err := c.openURL(ctx, url); err != nil {
		c.logger.Warn("open browser", "url", url, "error", err)
		fmt.Fprintln(c.out, url)
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	staleStyle  = cellStyle.Foreground(lipgloss.Color("#d4a844"))
)

// ticketTable renders tickets as a bordered table. Stale rows are
// highlighted.
func ticketTable(tickets []domain.Ticket, withReporter bool, now time.Time, staleAfter time.Duration) string {
	headers := []string{"ID", "TÍTULO", "ESTADO", "PRIORIDAD", "CREADO"}
	if withReporter {
		headers = append(headers, "REPORTADO POR")
	}
	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		row := []string{
			fmt.Sprintf("#%d", t.ID),
			truncate(t.Title, 40),
			t.Status.Label(),
			string(t.Priority),
			t.CreatedAt.Local().Format("02/01/2006"),
		}
		if withReporter {
			row = append(row, strings.TrimSpace(t.User.FirstName+" "+t.User.LastName))
		}
		rows = append(rows, row)
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(tickets) && tickets[row].Staleness(now, staleAfter) != domain.Fresh:
				return staleStyle
			}
			return cellStyle
		})
	return tbl.Render()
}

func writeLibrary(w io.Writer, items []domain.Incidencia) {
	title := lipgloss.NewStyle().Bold(true)
	meta := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s\n", title.Render(it.Title), meta.Render("["+it.Category+"]"))
		for _, line := range strings.Split(strings.TrimSpace(it.Solution), "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
