package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/lcconsultores/ticketera/internal/config"
	"github.com/lcconsultores/ticketera/internal/logging"
	"github.com/lcconsultores/ticketera/internal/session"
	"github.com/lcconsultores/ticketera/internal/storage"
	"github.com/lcconsultores/ticketera/internal/tui"
	"github.com/lcconsultores/ticketera/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", client.Message(err))
		os.Exit(1)
	}
}

// options are the command-line overrides applied on top of the environment.
type options struct {
	apiURL    string
	home      string
	logLevel  string
	ephemeral bool
	all       bool
	help      bool
	version   bool
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ticketera", pflag.ContinueOnError)
	fs.StringVar(&opts.apiURL, "api-url", "", "backend origin (default $TICKETERA_API_URL)")
	fs.StringVar(&opts.home, "home", "", "state directory (default ~/.ticketera)")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.BoolVar(&opts.ephemeral, "ephemeral", false, "keep the session in memory only")
	fs.BoolVar(&opts.all, "all", false, "tickets: list every ticket (staff only)")
	fs.BoolVarP(&opts.help, "help", "h", false, "show help")
	fs.BoolVarP(&opts.version, "version", "v", false, "print the version")
	return fs
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.APIURL = opts.apiURL
	}
	if opts.home != "" {
		cfg.Home = opts.home
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, fs)
			return nil
		}
		return err
	}
	if opts.version {
		fmt.Fprintln(stdout, "ticketera "+version)
		return nil
	}
	if opts.help {
		printHelp(stdout, fs)
		return nil
	}

	command := ""
	rest := fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}
	switch command {
	case "version":
		fmt.Fprintln(stdout, "ticketera "+version)
		return nil
	case "help":
		printHelp(stdout, fs)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	var st storage.Storage = storage.NewFile(cfg.SessionPath())
	if opts.ephemeral {
		st = storage.NewMemory(nil)
	}

	if command == "" {
		return runTUI(ctx, cfg, st)
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if opts.logLevel == "" {
		level = slog.LevelWarn
	}
	logger := logging.NewCommandLogger(stderr, level, cfg.LogFormat)
	c := newCLI(cfg, st, logger, stdin, stdout)

	switch command {
	case "login":
		return c.login(ctx)
	case "logout":
		return c.logout()
	case "whoami":
		return c.whoami()
	case "tickets":
		return c.tickets(ctx, opts.all)
	case "library":
		return c.library(ctx, rest)
	case "open":
		return c.open(ctx)
	}
	printHelp(stderr, fs)
	return fmt.Errorf("unknown command %q", command)
}

// newClient wires the API client to read the bearer token from st on every
// request.
func newClient(cfg *config.Config, st storage.Storage, logger *slog.Logger) *client.Client {
	tokens := client.TokenFunc(func() (string, error) { return storage.Token(st) })
	return client.New(cfg.APIURL, tokens, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
}

func runTUI(ctx context.Context, cfg *config.Config, st storage.Storage) error {
	logger, closer, err := logging.FromConfig(cfg)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	c := newClient(cfg, st, logger)
	store := session.New(st, c, session.WithLogger(logger))
	app := tui.NewApp(ctx, store, c, cfg.FrontendURL(),
		tui.WithLogger(logger),
		tui.WithStaleAfter(cfg.StaleAfter),
	)
	defer app.Close()

	logger.Info("starting", "version", version, "api_url", cfg.APIURL)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprint(w, `ticketera - cliente de incidencias de LC Consultores

Uso:
  ticketera [flags] [comando]

Comandos:
  (ninguno)        abrir la aplicación interactiva
  login            iniciar sesión
  logout           cerrar la sesión guardada
  whoami           mostrar el usuario de la sesión
  tickets          listar sus tickets (--all: todos, solo personal)
  library [texto]  buscar en la biblioteca de soluciones
  open             abrir la versión web
  version          mostrar la versión

Flags:
`)
	fmt.Fprint(w, fs.FlagUsages())
}
