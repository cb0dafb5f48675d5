package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names for the Google OAuth credentials.
const (
	EnvClientID     = "CLIENT_ID"
	EnvClientSecret = "CLIENT_SECRET"
	EnvRefreshToken = "REFRESH_TOKEN"
	EnvRedirectURI  = "REDIRECT_URI"
)

// Environment variable names for application settings.
const (
	EnvEditor      = "DRIVEMENU_EDITOR"
	EnvDownloadDir = "DRIVEMENU_DOWNLOAD_DIR"
	EnvLogLevel    = "DRIVEMENU_LOG_LEVEL"
	EnvLogFormat   = "DRIVEMENU_LOG_FORMAT"
	EnvDotEnvFile  = "DRIVEMENU_ENV_FILE"
)

const (
	// DefaultDotEnvFile is loaded from the working directory when present.
	DefaultDotEnvFile = ".env"

	// DefaultDownloadDir is where downloaded and edited files are written.
	DefaultDownloadDir = "."

	// DefaultLogLevel keeps log output out of the way of the menu.
	DefaultLogLevel = "warn"

	// DefaultLogFormat is the slog handler used for log output.
	DefaultLogFormat = "text"
)

// ErrMissingCredentials is returned when a required credential is not set.
var ErrMissingCredentials = errors.New("missing Google credentials")

// Credentials holds the pre-issued OAuth client and refresh token used to
// reach Google Drive.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string

	// RedirectURI is not needed for the refresh-token grant but is carried
	// along so the OAuth config matches the one the token was issued for.
	RedirectURI string
}

// Validate checks that all fields required for a token refresh are present.
func (c Credentials) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if c.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if c.RefreshToken == "" {
		missing = append(missing, EnvRefreshToken)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not set", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Settings holds application settings that are not secrets.
type Settings struct {
	// Editor is the command used for the view/edit action. Empty means the
	// editor package picks one from $VISUAL, $EDITOR or its default.
	Editor string

	// DownloadDir is the local directory downloads and edits are written to.
	DownloadDir string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is one of text, json.
	LogFormat string

	// DotEnvFile is the .env file loaded before reading credentials.
	DotEnvFile string
}

// DefaultSettings returns Settings populated from the environment.
func DefaultSettings() Settings {
	return Settings{
		Editor:      getEnvOrDefault(EnvEditor, ""),
		DownloadDir: getEnvOrDefault(EnvDownloadDir, DefaultDownloadDir),
		LogLevel:    getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
		LogFormat:   getEnvOrDefault(EnvLogFormat, DefaultLogFormat),
		DotEnvFile:  getEnvOrDefault(EnvDotEnvFile, DefaultDotEnvFile),
	}
}

// Validate checks the settings for values the rest of the program cannot use.
func (s Settings) Validate() error {
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", s.LogLevel)
	}

	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", s.LogFormat)
	}

	if s.DownloadDir == "" {
		return fmt.Errorf("download directory must not be empty")
	}
	return nil
}

// LoadDotEnv loads variables from path into the process environment.
// Variables that are already set are left untouched. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// CredentialsFromEnv reads the OAuth credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		ClientID:     strings.TrimSpace(os.Getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(os.Getenv(EnvClientSecret)),
		RefreshToken: strings.TrimSpace(os.Getenv(EnvRefreshToken)),
		RedirectURI:  strings.TrimSpace(os.Getenv(EnvRedirectURI)),
	}
}

// LoadCredentials loads the .env file at dotEnvPath, then reads and
// validates the credentials from the environment.
func LoadCredentials(dotEnvPath string) (Credentials, error) {
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return Credentials{}, err
	}

	creds := CredentialsFromEnv()
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
