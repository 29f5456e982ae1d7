package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fixdesk/fixdesk/internal/config"
	"github.com/fixdesk/fixdesk/internal/identity"
	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

// quietLogger drops the dashboard's diagnostics; the CLI reports failures
// through notices and exit codes instead.
var quietLogger = slog.New(slog.DiscardHandler)

// errNoSite is returned when neither config nor flags name a site.
var errNoSite = errors.New("no site configured: run 'fd init <site>' or pass --site")

// resolveConfig merges the config files with the global flags.
func resolveConfig() (*config.ResolvedConfig, error) {
	cfg, err := config.ResolveConfig()
	if err != nil {
		return nil, err
	}
	if siteFlag != "" {
		cfg.Site = siteFlag
	}
	if actorFlag != "" {
		cfg.Actor = actorFlag
	}
	if hostFlag != "" {
		cfg.ServerHost = hostFlag
	}
	if portFlag != 0 {
		cfg.ServerPort = portFlag
	}
	if cfg.Actor == "" {
		cfg.Actor = identity.Actor()
	}
	return cfg, nil
}

// getClient creates an SDK client from the resolved config.
func getClient() (*fixdesk.Client, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Site == "" {
		return nil, errNoSite
	}
	return fixdesk.NewClient(
		fixdesk.WithHost(cfg.ServerHost),
		fixdesk.WithPort(cfg.ServerPort),
		fixdesk.WithSite(cfg.Site),
		fixdesk.WithActor(cfg.Actor),
	)
}

// commandContext returns a context cancelled on SIGINT or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, fixdesk.ErrServerNotRunning) {
		return ExitServerNotRunning
	}
	if errors.Is(err, errNoSite) {
		return ExitSiteNotConfigured
	}

	var apiErr *fixdesk.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == fixdesk.ErrCodeSiteNotFound:
			return ExitSiteNotConfigured
		case fixdesk.IsNotFound(err):
			return ExitNotFound
		case apiErr.Code == fixdesk.ErrCodeValidationFailed, apiErr.Code == fixdesk.ErrCodeInvalidTransition:
			return ExitValidation
		case apiErr.Code == fixdesk.ErrCodeConflict:
			return ExitConflict
		default:
			return ExitGeneralError
		}
	}

	var formErr formError
	if errors.As(err, &formErr) {
		return ExitValidation
	}

	return ExitGeneralError
}

// handleError handles an error by printing it and exiting with the appropriate code
func handleError(err error) {
	if err == nil {
		return
	}

	printError(os.Stderr, err, jsonOutput)
	os.Exit(mapErrorToExitCode(err))
}

// formError carries client-side validation failures.
type formError map[string]string

func (f formError) Error() string {
	parts := make([]string, 0, len(f))
	for _, k := range sortedKeys(f) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, f[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// parsePriority parses a priority string (name or number) into an int
func parsePriority(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < fixdesk.PriorityCritical || n > fixdesk.PriorityLowest {
			return 0, fmt.Errorf("priority must be between 0-4, got %d", n)
		}
		return n, nil
	}

	switch strings.ToLower(s) {
	case "critical":
		return fixdesk.PriorityCritical, nil
	case "high":
		return fixdesk.PriorityHigh, nil
	case "normal":
		return fixdesk.PriorityNormal, nil
	case "low":
		return fixdesk.PriorityLow, nil
	case "lowest":
		return fixdesk.PriorityLowest, nil
	default:
		return 0, fmt.Errorf("invalid priority: %s (use 0-4 or critical/high/normal/low/lowest)", s)
	}
}

// parseStatus accepts a task status in any case, with - or _ separators.
func parseStatus(s string) (fixdesk.TaskStatus, error) {
	status := fixdesk.TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch status {
	case fixdesk.StatusSuggested, fixdesk.StatusPending, fixdesk.StatusInProgress,
		fixdesk.StatusCompleted, fixdesk.StatusRejected, fixdesk.StatusDelayed, fixdesk.StatusCancelled:
		return status, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// parseStock accepts the stock filter names used by the inventory view.
func parseStock(s string) (fixdesk.StockLevel, error) {
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "ok":
		return fixdesk.StockOK, nil
	case "low", string(fixdesk.StockLow):
		return fixdesk.StockLow, nil
	case "out", string(fixdesk.StockOutOfStock):
		return fixdesk.StockOutOfStock, nil
	}
	return "", fmt.Errorf("invalid stock filter: %s (use ok, low or out)", s)
}
