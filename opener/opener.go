// Package opener opens item links outside the application.
package opener

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
)

// CheckURL accepts only absolute http(s) links.
func CheckURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing link: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: scheme %q", raw, u.Scheme)
	}
	return nil
}

// System opens links with the platform's URL handler, for the terminal app.
type System struct{}

// Open implements interaction.Opener.
func (System) Open(raw string) error {
	if err := CheckURL(raw); err != nil {
		return err
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", raw)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", raw)
	default:
		cmd = exec.Command("xdg-open", raw)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting url handler: %w", err)
	}
	go cmd.Wait() //nolint:errcheck // detached handler
	return nil
}

// Log records links instead of opening them, for headless runs.
type Log struct {
	Logger *slog.Logger
}

// Open implements interaction.Opener.
func (l Log) Open(raw string) error {
	if err := CheckURL(raw); err != nil {
		return err
	}
	l.Logger.Info("open link", "url", raw)
	return nil
}
