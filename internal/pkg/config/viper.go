package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrConfigTypeRequired is returned by NewViperFromBytes when no format is given.
var ErrConfigTypeRequired = errors.New("config type is required")

// Defaults are applied before the config file is read, so a partial file
// still yields a runnable service.
var Defaults = map[string]any{
	"app.name":                                    "authenticator",
	"app.tz":                                      "UTC",
	"app.maintenance.endpoints":                   "",
	"app.server.max_goroutine":                    64,
	"app.server.cors":                             "*",
	"app.server.http.address":                     ":8080",
	"app.server.http.read_timeout_seconds":        10,
	"app.server.http.read_header_timeout_seconds": 5,
	"app.server.http.write_timeout_seconds":       10,
	"app.server.http.idle_timeout_seconds":        60,
	"instrument.enabled":                          false,
	"instrument.service_name":                     "authenticator",
	"instrument.log_level":                        "info",
	"instrument.log_mask_fields":                  "secret,code,uri,qr",
	"instrument.metric_interval_seconds":          15,
	"kvstore.driver":                              "memory",
	"kvstore.redis.prefix":                        "authenticator:",
	"kvstore.postgres.table":                      "authenticator_kv",
	"kvstore.ping_retry_max_seconds":              30,
	"messaging.driver":                            "log",
	"modules.authenticator.enabled":               true,
	"modules.authenticator.totp.issuer":           "MyReactApp",
	"modules.authenticator.totp.label":            "user@example.com",
	"modules.authenticator.totp.algorithm":        "SHA1",
	"modules.authenticator.totp.digits":           6,
	"modules.authenticator.totp.period":           30,
	"modules.authenticator.totp.skew":             1,
	"modules.authenticator.qr.size":               256,
	"modules.authenticator.session.cookie":        "authenticator_sid",
	"modules.authenticator.session.ttl_minutes":   0,
	"modules.authenticator.session.secure":        false,
	"modules.authenticator.verify.max_attempts":   0,
	"modules.authenticator.verify.window_minutes": 5,
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// PathFromEnv resolves the config file location from CONFIG_PATH, falling
// back to ./config/config.yaml when LOCAL=true and /config/config.yaml otherwise.
func PathFromEnv() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

// NewViper loads configuration from the given file path and watches it for changes.
//
// Environment variables override file values: app.server.http.address is
// read from APP_SERVER_HTTP_ADDRESS.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()

	filename := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, path.Ext(filename)))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config reloaded", "path", pathFile, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes loads configuration from memory.
// configType should be a format supported by Viper (e.g. "yaml", "json").
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (vc *Viper) GetBool(key string) bool { return vc.v.GetBool(key) }

func (vc *Viper) GetString(key string) string { return vc.v.GetString(key) }

func (vc *Viper) GetInt(key string) int { return vc.v.GetInt(key) }

func (vc *Viper) GetInt32(key string) int32 { return vc.v.GetInt32(key) }

func (vc *Viper) GetUint(key string) uint { return vc.v.GetUint(key) }

func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetMinute(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Minute
}

func (vc *Viper) GetArray(key string) []string {
	var parts []string
	if raw, ok := vc.v.Get(key).(string); ok {
		parts = strings.Split(raw, ",")
	} else {
		parts = vc.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Close implements io.Closer. Viper holds no resources beyond the watcher goroutine.
func (vc *Viper) Close() error {
	return nil
}
