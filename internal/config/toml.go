package config

import "fmt"

const (
	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 7480
)

// serverSection represents the client's [server] section in TOML
type serverSection struct {
	Host string `toml:"host"`
	Port *int   `toml:"port"`
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
