// Package browser opens URLs in the user's default browser.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Command returns the program and arguments that open target on goos.
func Command(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("browser: unsupported OS: %s", goos)
	}
}

// Open opens target in the default browser without waiting for it to exit.
// Only http and https URLs are accepted.
func Open(ctx context.Context, target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser: refusing to open %q", target)
	}
	name, args, err := Command(runtime.GOOS, u.String())
	if err != nil {
		return err
	}
	return exec.CommandContext(ctx, name, args...).Start()
}
