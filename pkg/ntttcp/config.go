package ntttcp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"
)

const (
	DefaultPath     = "ntttcp"
	DefaultAddress  = "127.0.0.1"
	DefaultPort     = 5001
	DefaultDuration = 10 * time.Second
	DefaultGrace    = 2 * time.Second
)

var ErrInvalidConfig = errors.New("invalid ntttcp config")

// Role is the mode the external tool is invoked in
type Role int

const (
	Receiver Role = iota
	Sender
)

// Flag returns the command line flag selecting the role
func (r Role) Flag() string {
	if r == Sender {
		return "-s"
	}
	return "-r"
}

func (r Role) String() string {
	if r == Sender {
		return "sender"
	}
	return "receiver"
}

type Config struct {
	// Path to the ntttcp executable. Bare names are looked up from PATH.
	Path    string
	Streams int
	Address string
	Port    int
	// Duration of the measurement. Only whole seconds are passed to the tool.
	Duration time.Duration
	// Grace is the delay between starting the receiver and the sender
	Grace time.Duration
	// Timeout bounds the whole run including grace; zero means no timeout
	Timeout time.Duration
	// OnSender, if set, receives the sender report as soon as the sender
	// exits, before the receiver is waited for.
	OnSender func(*Report)
	Logger   *slog.Logger
}

// WithDefaults returns a copy of the config with zero fields set to defaults
func (c Config) WithDefaults() Config {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	if c.Grace == 0 {
		c.Grace = DefaultGrace
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("%w: path is required", ErrInvalidConfig)
	}
	if c.Streams < 1 {
		return fmt.Errorf("%w: streams must be at least 1, got %d", ErrInvalidConfig, c.Streams)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: invalid port %d", ErrInvalidConfig, c.Port)
	}
	if c.Duration < time.Second {
		return fmt.Errorf("%w: duration must be at least one second, got %s", ErrInvalidConfig, c.Duration)
	}
	if c.Grace < 0 || c.Timeout < 0 {
		return fmt.Errorf("%w: grace and timeout cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Args returns the tool arguments for the given role, without the tool path
func (c Config) Args(role Role) []string {
	return []string{
		role.Flag(),
		"-m", fmt.Sprintf("%d,0,%s", c.Streams, c.Address),
		"-p", strconv.Itoa(c.Port),
		"-t", strconv.Itoa(int(c.Duration / time.Second)),
	}
}

// Command returns the full argument vector for the given role, tool path first
func (c Config) Command(role Role) []string {
	return append([]string{c.Path}, c.Args(role)...)
}
