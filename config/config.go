package config

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"net"
	"os"
	"strconv"

	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
)

const placeholderKey = "CHANGE_ME_IN_PRODUCTION"

type Config struct {
	AppName        string `json:"app_name"`
	ListenIP       string `json:"listen_ip"`
	ListenPort     int    `json:"listen_port"`
	SessionKey     string `json:"session_key"`
	DatabasePath   string `json:"database_path"`
	SecureCookies  bool   `json:"secure_cookies"`
	RequireCaptcha bool   `json:"require_captcha"`
	LogLevel       string `json:"log_level"`

	// GeneratedKey is set when no usable session key was configured and a
	// random one was generated. Sessions will not survive a restart.
	GeneratedKey bool `json:"-"`
}

func defaults() Config {
	return Config{
		AppName:      "Vacation Rentals",
		ListenIP:     "127.0.0.1",
		ListenPort:   8080,
		DatabasePath: "./vacation_rental.db",
		LogLevel:     "info",
	}
}

// LoadConfig reads the JSON file at path on top of the defaults, then applies
// the environment overrides. A .env file in the working directory is loaded
// first if present.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := defaults()
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if envKey := os.Getenv("VACATION_SESSION_KEY"); envKey != "" {
		cfg.SessionKey = envKey
	}
	if envDB := os.Getenv("VACATION_DB_PATH"); envDB != "" {
		cfg.DatabasePath = envDB
	}

	if cfg.SessionKey == "" || cfg.SessionKey == placeholderKey {
		randomKey := securecookie.GenerateRandomKey(32)
		if randomKey == nil {
			return nil, errors.New("config: failed to generate session key")
		}
		cfg.SessionKey = hex.EncodeToString(randomKey)
		cfg.GeneratedKey = true
	}

	return &cfg, nil
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.ListenIP, strconv.Itoa(c.ListenPort))
}
