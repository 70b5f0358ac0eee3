package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrThreadsNotSet error returns when threads is explicitly set to 0
	ErrThreadsNotSet = errors.New("threads not set, 0 is not a valid value")
	// ErrInvalidValue error returns when a numeric setting is out of range
	ErrInvalidValue = errors.New("invalid value")
)

const (
	DefaultAddress        = "127.0.0.1:50051"
	DefaultThreads        = 1
	DefaultMaxRecvMsgSize = 4 * 1024 * 1024
)

// Keepalive holds the gRPC server keepalive settings.
type Keepalive struct {
	Time    time.Duration `yaml:"time"`
	Timeout time.Duration `yaml:"timeout"`
	MinTime time.Duration `yaml:"min_time"`
}

// Config is the configuration of the sort command and of the sort service.
type Config struct {
	// Address the sort service listens on.
	Address string `yaml:"address"`
	// Threads used by a sort when the request does not ask for a number,
	// the calling goroutine included.
	Threads int `yaml:"threads"`
	// MaxThreads is the most threads a single sort may ask for, 0 for no cap.
	MaxThreads int `yaml:"max_threads"`
	// Workers is the size of the worker pool shared by all sorts of the
	// service, 0 for GOMAXPROCS.
	Workers        int       `yaml:"workers"`
	MaxRecvMsgSize int       `yaml:"max_recv_msg_size"`
	Keepalive      Keepalive `yaml:"keepalive"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Address:        DefaultAddress,
		Threads:        DefaultThreads,
		MaxRecvMsgSize: DefaultMaxRecvMsgSize,
		Keepalive: Keepalive{
			Time:    time.Second * 30,
			Timeout: time.Second * 10,
			MinTime: time.Second * 10,
		},
	}
}

// Load reads the YAML file fn over the defaults and validates the result.
func Load(fn string) (*Config, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s with error: %w", fn, err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %s with error: %w", fn, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration file %s: %w", fn, err)
	}

	return c, nil
}

// Validate checks the values of c.
func (c *Config) Validate() error {
	switch {
	case c.Threads == 0:
		return ErrThreadsNotSet
	case c.Threads < 0:
		return fmt.Errorf("%w %d for threads", ErrInvalidValue, c.Threads)
	case c.MaxThreads < 0:
		return fmt.Errorf("%w %d for max_threads", ErrInvalidValue, c.MaxThreads)
	case c.MaxThreads > 0 && c.Threads > c.MaxThreads:
		return fmt.Errorf("%w: threads %d exceed max_threads %d", ErrInvalidValue, c.Threads, c.MaxThreads)
	case c.Workers < 0:
		return fmt.Errorf("%w %d for workers", ErrInvalidValue, c.Workers)
	case c.MaxRecvMsgSize <= 0:
		return fmt.Errorf("%w %d for max_recv_msg_size", ErrInvalidValue, c.MaxRecvMsgSize)
	case c.Keepalive.Time < 0 || c.Keepalive.Timeout < 0 || c.Keepalive.MinTime < 0:
		return fmt.Errorf("%w: negative keepalive interval", ErrInvalidValue)
	}
	return nil
}
