package configs

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost      = "127.0.0.1"
	DefaultPort      = 3002
	DefaultSurround  = 3
	DefaultTimeout   = time.Second * 3
	DefaultEnvToggle = "CODECTRL_DEBUG"
)

// CodeCTRL holds where logs are delivered and how call sites are captured.
type CodeCTRL struct {
	host        string
	port        int
	surround    uint32
	timeout     time.Duration
	envToggle   string
	tls         *tls.Config
	dialOptions []grpc.DialOption
}

// Default returns a config pointing at a collector on the loopback address.
func Default() *CodeCTRL {
	return &CodeCTRL{
		host:      DefaultHost,
		port:      DefaultPort,
		surround:  DefaultSurround,
		timeout:   DefaultTimeout,
		envToggle: DefaultEnvToggle,
	}
}

// NewCodeCTRL creates a new CodeCTRL config for the given collector
func NewCodeCTRL(host string, port int) (*CodeCTRL, error) {
	c := Default()
	if err := c.SetHost(host); err != nil {
		return nil, err
	}
	if err := c.SetPort(port); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv builds a config from CODECTRL_* environment variables, falling
// back to the defaults for anything unset.
func FromEnv() (*CodeCTRL, error) {
	port, err := strconv.Atoi(getenv("CODECTRL_PORT", strconv.Itoa(DefaultPort)))
	if err != nil {
		return nil, fmt.Errorf("invalid CODECTRL_PORT: %w", err)
	}

	c, err := NewCodeCTRL(getenv("CODECTRL_HOST", DefaultHost), port)
	if err != nil {
		return nil, err
	}

	surround, err := strconv.ParseUint(getenv("CODECTRL_SURROUND", strconv.Itoa(DefaultSurround)), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid CODECTRL_SURROUND: %w", err)
	}
	c.SetSurround(uint32(surround))

	timeout, err := time.ParseDuration(getenv("CODECTRL_TIMEOUT", DefaultTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid CODECTRL_TIMEOUT: %w", err)
	}
	c.SetTimeout(timeout)
	c.SetEnvToggle(getenv("CODECTRL_ENV_TOGGLE", DefaultEnvToggle))

	return c, nil
}

type fileConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Surround  *int   `yaml:"surround"`
	Timeout   string `yaml:"timeout"`
	EnvToggle string `yaml:"env_toggle"`
}

// FromFile reads a YAML config file. Keys left out keep their defaults.
func FromFile(path string) (*CodeCTRL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	c := Default()
	if fc.Host != "" {
		if err := c.SetHost(fc.Host); err != nil {
			return nil, err
		}
	}
	if fc.Port != 0 {
		if err := c.SetPort(fc.Port); err != nil {
			return nil, err
		}
	}
	if fc.Surround != nil {
		if *fc.Surround < 0 {
			return nil, fmt.Errorf("invalid surround: %d", *fc.Surround)
		}
		c.SetSurround(uint32(*fc.Surround))
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %s", fc.Timeout)
		}
		c.SetTimeout(timeout)
	}
	if fc.EnvToggle != "" {
		c.SetEnvToggle(fc.EnvToggle)
	}

	return c, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// SetHost sets the collector host
func (c *CodeCTRL) SetHost(host string) error {
	if host == "" {
		return fmt.Errorf("invalid host: %q", host)
	}
	c.host = host
	return nil
}

// SetPort sets the collector port
func (c *CodeCTRL) SetPort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	c.port = port
	return nil
}

// SetSurround sets how many source lines are captured on each side of the call site
func (c *CodeCTRL) SetSurround(surround uint32) {
	c.surround = surround
}

// SetTimeout sets the deadline for a single send or batch session
func (c *CodeCTRL) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SetEnvToggle sets the environment variable that enables LogWhenEnv
func (c *CodeCTRL) SetEnvToggle(name string) {
	c.envToggle = name
}

// SetTLS switches the channel from insecure to TLS
func (c *CodeCTRL) SetTLS(cfg *tls.Config) {
	c.tls = cfg
}

// AddDialOptions appends extra gRPC dial options, e.g. a custom dialer
func (c *CodeCTRL) AddDialOptions(opts ...grpc.DialOption) {
	c.dialOptions = append(c.dialOptions, opts...)
}

// Host returns the collector host
func (c *CodeCTRL) Host() string {
	return c.host
}

// Port returns the collector port
func (c *CodeCTRL) Port() int {
	return c.port
}

// Address returns host:port of the collector
func (c *CodeCTRL) Address() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// Surround returns the number of context lines on each side of the call site
func (c *CodeCTRL) Surround() uint32 {
	return c.surround
}

// Timeout returns the deadline for a single send or batch session
func (c *CodeCTRL) Timeout() time.Duration {
	return c.timeout
}

// EnvToggle returns the environment variable checked by LogWhenEnv
func (c *CodeCTRL) EnvToggle() string {
	return c.envToggle
}

// TransportCredentials returns TLS credentials when configured, insecure ones otherwise
func (c *CodeCTRL) TransportCredentials() credentials.TransportCredentials {
	if c.tls != nil {
		return credentials.NewTLS(c.tls)
	}
	return insecure.NewCredentials()
}

// DialOptions returns the extra gRPC dial options
func (c *CodeCTRL) DialOptions() []grpc.DialOption {
	return c.dialOptions
}
