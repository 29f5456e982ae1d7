package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fixdesk/fixdesk/pkg/fixdesk"
)

func apiError(code fixdesk.ErrorCode) error {
	return &fixdesk.Error{StatusCode: 400, Code: code, Message: string(code)}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitSuccess},
		{name: "server not running", err: fixdesk.ErrServerNotRunning, expected: ExitServerNotRunning},
		{name: "wrapped server not running", err: fmt.Errorf("list: %w", fixdesk.ErrServerNotRunning), expected: ExitServerNotRunning},
		{name: "no site", err: errNoSite, expected: ExitSiteNotConfigured},
		{name: "site not found", err: apiError(fixdesk.ErrCodeSiteNotFound), expected: ExitSiteNotConfigured},
		{name: "task not found", err: apiError(fixdesk.ErrCodeTaskNotFound), expected: ExitNotFound},
		{name: "device not found", err: apiError(fixdesk.ErrCodeDeviceNotFound), expected: ExitNotFound},
		{name: "validation", err: apiError(fixdesk.ErrCodeValidationFailed), expected: ExitValidation},
		{name: "invalid transition", err: apiError(fixdesk.ErrCodeInvalidTransition), expected: ExitValidation},
		{name: "conflict", err: apiError(fixdesk.ErrCodeConflict), expected: ExitConflict},
		{name: "internal", err: apiError(fixdesk.ErrCodeInternalError), expected: ExitGeneralError},
		{name: "form error", err: formError{"name": "name is required"}, expected: ExitValidation},
		{name: "generic error", err: errors.New("something went wrong"), expected: ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapErrorToExitCode(tt.err)
			if result != tt.expected {
				t.Errorf("mapErrorToExitCode() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"4", 4, false},
		{"critical", fixdesk.PriorityCritical, false},
		{"HIGH", fixdesk.PriorityHigh, false},
		{"normal", fixdesk.PriorityNormal, false},
		{"lowest", fixdesk.PriorityLowest, false},
		{"5", 0, true},
		{"-1", 0, true},
		{"urgent", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePriority(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePriority(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parsePriority(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]fixdesk.TaskStatus{
		"pending":     fixdesk.StatusPending,
		"In-Progress": fixdesk.StatusInProgress,
		" completed ": fixdesk.StatusCompleted,
		"cancelled":   fixdesk.StatusCancelled,
	}
	for input, want := range tests {
		got, err := parseStatus(input)
		if err != nil {
			t.Errorf("parseStatus(%q) unexpected error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("parseStatus(%q) = %q, want %q", input, got, want)
		}
	}

	if _, err := parseStatus("done"); err == nil {
		t.Error("parseStatus(done) should fail")
	}
}

func TestParseStock(t *testing.T) {
	tests := map[string]fixdesk.StockLevel{
		"":             "",
		"ok":           fixdesk.StockOK,
		"low":          fixdesk.StockLow,
		"low_stock":    fixdesk.StockLow,
		"OUT":          fixdesk.StockOutOfStock,
		"out_of_stock": fixdesk.StockOutOfStock,
	}
	for input, want := range tests {
		got, err := parseStock(input)
		if err != nil || got != want {
			t.Errorf("parseStock(%q) = %q, %v; want %q", input, got, err, want)
		}
	}

	if _, err := parseStock("plenty"); err == nil {
		t.Error("parseStock(plenty) should fail")
	}
}

func TestFormError(t *testing.T) {
	err := formError{"quantity": "quantity cannot be negative", "name": "name is required"}
	want := "invalid input: name: name is required; quantity: quantity cannot be negative"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	siteFlag, actorFlag, hostFlag, portFlag = "plant-b", "ops@kiosk", "10.0.0.5", 9000
	t.Cleanup(func() { siteFlag, actorFlag, hostFlag, portFlag = "", "", "", 0 })

	cfg, err := resolveConfig()
	if err != nil {
		t.Fatalf("resolveConfig() error: %v", err)
	}
	if cfg.Site != "plant-b" || cfg.Actor != "ops@kiosk" || cfg.ServerHost != "10.0.0.5" || cfg.ServerPort != 9000 {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if !cfg.RefreshOnNotification {
		t.Error("RefreshOnNotification should default to true")
	}
}

func TestGetClient_NoSite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := getClient()
	if !errors.Is(err, errNoSite) {
		t.Fatalf("getClient() error = %v, want errNoSite", err)
	}
}
