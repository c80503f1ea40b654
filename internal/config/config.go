package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingEnv is wrapped by Load when a required variable is unset.
var ErrMissingEnv = errors.New("missing required environment variable")

const (
	EnvCanvasToken = "CANVAS_ACCESS_TOKEN"
	EnvTrelloKey   = "TRELLO_API_KEY"
	EnvTrelloToken = "TRELLO_API_TOKEN"
	EnvPort        = "TRELLO_CANVAS_PORT"
	EnvPublicIP    = "PUBLIC_IP"
)

type Config struct {
	Canvas   CanvasConfig
	Trello   TrelloConfig
	Server   ServerConfig
	Sync     SyncConfig
	Calendar CalendarConfig
}

type CanvasConfig struct {
	BaseURL string
	Token   string
}

type TrelloConfig struct {
	BaseURL          string
	APIKey           string
	APIToken         string
	BoardName        string
	DeregisterOnExit bool
}

type ServerConfig struct {
	Port     int
	PublicIP string
}

type SyncConfig struct {
	OnStartup bool
	ListName  string
}

// CalendarConfig is optional; the calendar is only used when both fields are set.
type CalendarConfig struct {
	CalendarID         string
	ServiceAccountJSON []byte
}

func (c CalendarConfig) Enabled() bool {
	return c.CalendarID != "" && len(c.ServiceAccountJSON) > 0
}

// Load reads the configuration from the environment, a .env file and an optional config.toml
// in the working directory. Required variables have no defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("CANVAS_BASE_URL", "https://ames.instructure.com")
	v.SetDefault("TRELLO_BASE_URL", "https://api.trello.com")
	v.SetDefault("TRELLO_BOARD_NAME", "To-Dos")
	// Off by default: the webhook outlives the process unless asked otherwise.
	v.SetDefault("TRELLO_DEREGISTER_ON_EXIT", false)
	v.SetDefault("SYNC_ON_STARTUP", true)
	v.SetDefault("SYNC_LIST_NAME", "To Do")
}

func fromViper(v *viper.Viper) (*Config, error) {
	required := func(key string) (string, error) {
		val := strings.TrimSpace(v.GetString(key))
		if val == "" {
			return "", fmt.Errorf("%w: `%s`", ErrMissingEnv, key)
		}
		return val, nil
	}

	canvasToken, err := required(EnvCanvasToken)
	if err != nil {
		return nil, err
	}
	trelloKey, err := required(EnvTrelloKey)
	if err != nil {
		return nil, err
	}
	trelloToken, err := required(EnvTrelloToken)
	if err != nil {
		return nil, err
	}
	portStr, err := required(EnvPort)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("unable to parse `%s` environment variable %q as a port", EnvPort, portStr)
	}
	publicIP, err := required(EnvPublicIP)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Canvas: CanvasConfig{
			BaseURL: v.GetString("CANVAS_BASE_URL"),
			Token:   canvasToken,
		},
		Trello: TrelloConfig{
			BaseURL:          v.GetString("TRELLO_BASE_URL"),
			APIKey:           trelloKey,
			APIToken:         trelloToken,
			BoardName:        v.GetString("TRELLO_BOARD_NAME"),
			DeregisterOnExit: v.GetBool("TRELLO_DEREGISTER_ON_EXIT"),
		},
		Server: ServerConfig{
			Port:     port,
			PublicIP: publicIP,
		},
		Sync: SyncConfig{
			OnStartup: v.GetBool("SYNC_ON_STARTUP"),
			ListName:  v.GetString("SYNC_LIST_NAME"),
		},
		Calendar: CalendarConfig{
			CalendarID: v.GetString("GOOGLE_CALENDAR_ID"),
		},
	}
	if cfg.Calendar.CalendarID == "" {
		cfg.Calendar.CalendarID = v.GetString("google.calendar.calendar_id")
	}

	if settings := v.Get("google.service_account"); settings != nil {
		jsonBytes, err := json.Marshal(settings)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal service account settings to JSON: %w", err)
		}
		cfg.Calendar.ServiceAccountJSON = jsonBytes
	}

	return cfg, nil
}
