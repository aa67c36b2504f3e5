// Package config resolves the client settings from defaults, the optional
// settings.toml in the data directory, and VNDA_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	tomlrepo "github.com/vnda/vnda-cli/internal/adapters/repo/toml"
	"github.com/vnda/vnda-cli/internal/adapters/session"
	"github.com/vnda/vnda-cli/internal/domain"
)

const (
	EnvPrefix = "VNDA"
	EnvHome   = "VNDA_HOME"

	settingsName   = "settings"
	settingsType   = "toml"
	defaultDataDir = ".vnda"
	credentialFile = "credentials.toml"
)

const (
	KeyDataDir          = "data_dir"
	KeyHost             = "host"
	KeyPort             = "port"
	KeyProtocol         = "protocol"
	KeyClientName       = "client_name"
	KeyClientVersion    = "client_version"
	KeyDialTimeout      = "dial_timeout"
	KeyReadTimeout      = "read_timeout"
	KeyWriteTimeout     = "write_timeout"
	KeyMaxFrameBytes    = "max_frame_bytes"
	KeyMaxAge           = "max_age"
	KeyLogLevel         = "log_level"
	KeyCredentialsPath  = "credentials.path"
	KeyCredentialsStore = "credentials.store"
)

// Settings is the explicit configuration handed to every component at
// construction time.
type Settings struct {
	DataDir         string
	Host            string
	Port            int
	Protocol        int
	ClientName      string
	ClientVersion   string
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxFrameBytes   int
	MaxAge          time.Duration
	LogLevel        string
	CredentialsPath string
	// CredentialsStore is where login saves the password: "inline" in the
	// credentials file or "vault" behind a pass/file secret reference.
	CredentialsStore string
	// SettingsFile is the file that was read, empty when none exists.
	SettingsFile string
}

func (s Settings) Session() session.Config {
	return session.Config{
		Host:          s.Host,
		Port:          s.Port,
		Protocol:      s.Protocol,
		ClientName:    s.ClientName,
		ClientVersion: s.ClientVersion,
		DialTimeout:   s.DialTimeout,
		ReadTimeout:   s.ReadTimeout,
		WriteTimeout:  s.WriteTimeout,
		MaxFrameBytes: s.MaxFrameBytes,
	}
}

func (s Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if strings.TrimSpace(s.Host) == "" {
		errs = append(errs, errors.New("host is empty"))
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", s.Port))
	}
	if s.Protocol < 1 {
		errs = append(errs, fmt.Errorf("protocol %d must be positive", s.Protocol))
	}
	for name, d := range map[string]time.Duration{
		KeyDialTimeout:  s.DialTimeout,
		KeyReadTimeout:  s.ReadTimeout,
		KeyWriteTimeout: s.WriteTimeout,
		KeyMaxAge:       s.MaxAge,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}
	switch s.CredentialsStore {
	case tomlrepo.StoreInline, tomlrepo.StoreVault:
	default:
		errs = append(errs, fmt.Errorf("credentials.store must be %q or %q, got %q", tomlrepo.StoreInline, tomlrepo.StoreVault, s.CredentialsStore))
	}
	if s.MaxFrameBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_frame_bytes must be positive, got %d", s.MaxFrameBytes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid settings: %w", errors.Join(errs...))
	}
	return nil
}

// Load populates v and returns the resolved settings. The same viper
// instance is later handed to adapters that read their own keys.
func Load(v *viper.Viper) (Settings, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyDataDir, EnvHome); err != nil {
		return Settings{}, fmt.Errorf("bind %s: %w", EnvHome, err)
	}

	if v.GetString(KeyDataDir) == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("resolve home directory: %w", err)
		}
		v.SetDefault(KeyDataDir, filepath.Join(homeDir, defaultDataDir))
	}
	setDefaults(v)

	v.SetConfigName(settingsName)
	v.SetConfigType(settingsType)
	v.AddConfigPath(v.GetString(KeyDataDir))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings file: %w", err)
		}
	}

	dataDir, err := filepath.Abs(v.GetString(KeyDataDir))
	if err != nil {
		return Settings{}, fmt.Errorf("resolve data directory: %w", err)
	}
	v.Set(KeyDataDir, dataDir)

	credentialsPath := v.GetString(KeyCredentialsPath)
	if credentialsPath == "" {
		credentialsPath = filepath.Join(dataDir, credentialFile)
	}

	settings := Settings{
		DataDir:          dataDir,
		Host:             v.GetString(KeyHost),
		Port:             v.GetInt(KeyPort),
		Protocol:         v.GetInt(KeyProtocol),
		ClientName:       v.GetString(KeyClientName),
		ClientVersion:    v.GetString(KeyClientVersion),
		DialTimeout:      v.GetDuration(KeyDialTimeout),
		ReadTimeout:      v.GetDuration(KeyReadTimeout),
		WriteTimeout:     v.GetDuration(KeyWriteTimeout),
		MaxFrameBytes:    v.GetInt(KeyMaxFrameBytes),
		MaxAge:           v.GetDuration(KeyMaxAge),
		LogLevel:         v.GetString(KeyLogLevel),
		CredentialsPath:  credentialsPath,
		CredentialsStore: v.GetString(KeyCredentialsStore),
		SettingsFile:     v.ConfigFileUsed(),
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyHost, session.DefaultHost)
	v.SetDefault(KeyPort, session.DefaultPort)
	v.SetDefault(KeyProtocol, session.DefaultProtocol)
	v.SetDefault(KeyClientName, session.DefaultClientName)
	v.SetDefault(KeyClientVersion, session.DefaultClientVersion)
	v.SetDefault(KeyDialTimeout, session.DefaultDialTimeout)
	v.SetDefault(KeyReadTimeout, session.DefaultReadTimeout)
	v.SetDefault(KeyWriteTimeout, session.DefaultWriteTimeout)
	v.SetDefault(KeyMaxFrameBytes, session.DefaultMaxFrameBytes)
	v.SetDefault(KeyMaxAge, domain.DefaultMaxAge)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCredentialsPath, "")
	v.SetDefault(KeyCredentialsStore, tomlrepo.StoreInline)
}
