package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/connectfour/internal/engine"
	"github.com/lawnchairsociety/connectfour/internal/protocol"
	"github.com/lawnchairsociety/connectfour/internal/transport"
)

// ClientConfig holds the settings for one client run.
type ClientConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Game     GameConfig     `yaml:"game"`
	Player   PlayerConfig   `yaml:"player"`
}

// ServerConfig locates the game server.
type ServerConfig struct {
	Host string `yaml:"host" validate:"required,hostname_rfc1123|ip"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`

	// Scheme selects the transport: "tcp" for raw lines, "ws" for WebSocket.
	Scheme string `yaml:"scheme" validate:"oneof=tcp ws"`

	// Path is the WebSocket endpoint path. Ignored for tcp.
	Path string `yaml:"path"`
}

// ProtocolConfig tunes the wire protocol.
type ProtocolConfig struct {
	// HelloCommand is the login keyword sent before the username.
	HelloCommand string `yaml:"hello_command" validate:"required,nospace"`

	// Trace logs every line sent and received.
	Trace bool `yaml:"trace"`
}

// TimeoutsConfig bounds blocking operations. Zero disables a bound.
type TimeoutsConfig struct {
	Connect time.Duration `yaml:"connect" validate:"min=0"`
	Read    time.Duration `yaml:"read" validate:"min=0"`
	Write   time.Duration `yaml:"write" validate:"min=0"`
}

// GameConfig holds the grid requested at game start.
type GameConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// PlayerConfig holds the login identity. An empty username is asked for
// interactively.
type PlayerConfig struct {
	Username string `yaml:"username" validate:"omitempty,nospace"`
}

// DefaultConfig returns a ClientConfig with the reference server settings.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConfig{
			Host:   "circinus-32.ics.uci.edu",
			Port:   4444,
			Scheme: transport.SchemeTCP,
		},
		Protocol: ProtocolConfig{
			HelloCommand: protocol.DefaultHelloCommand,
		},
		Timeouts: TimeoutsConfig{
			Connect: 10 * time.Second,
			Read:    2 * time.Minute,
			Write:   10 * time.Second,
		},
		Game: GameConfig{
			Columns: 7,
			Rows:    6,
		},
	}
}

// LoadConfig loads client configuration from a YAML file and applies
// environment overrides. If the file doesn't exist, defaults are used.
func LoadConfig(path string) (*ClientConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return config, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return DefaultConfig(), err
		}
	}

	if err := config.applyEnv(); err != nil {
		return config, err
	}

	return config, config.Validate()
}

// LoadEnvFile loads KEY=VALUE pairs from an env file into the process
// environment. Variables already set are left alone. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func (c *ClientConfig) applyEnv() error {
	if host := os.Getenv("CF_HOST"); host != "" {
		c.Server.Host = host
	}

	if portStr := os.Getenv("CF_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid CF_PORT %q: %w", portStr, err)
		}
		c.Server.Port = port
	}

	if username := os.Getenv("CF_USERNAME"); username != "" {
		c.Player.Username = username
	}

	if traceStr := os.Getenv("CF_TRACE"); traceStr != "" {
		trace, err := strconv.ParseBool(traceStr)
		if err != nil {
			return fmt.Errorf("invalid CF_TRACE %q: %w", traceStr, err)
		}
		c.Protocol.Trace = trace
	}

	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// nospace rejects any whitespace, the wire protocol splits on it.
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// Validate checks field constraints and the grid against the engine bounds.
func (c *ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	if err := engine.ValidateDimensions(c.Game.Columns, c.Game.Rows); err != nil {
		return fmt.Errorf("invalid client config: %w", err)
	}
	return nil
}

// Address returns host:port for logging.
func (c *ServerConfig) Address() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// TransportOptions converts the config into dial options.
func (c *ClientConfig) TransportOptions() transport.Options {
	return transport.Options{
		Scheme:         c.Server.Scheme,
		Path:           c.Server.Path,
		ConnectTimeout: c.Timeouts.Connect,
		ReadTimeout:    c.Timeouts.Read,
		WriteTimeout:   c.Timeouts.Write,
	}
}
