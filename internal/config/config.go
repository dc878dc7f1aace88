package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

/* ---------- raw structs ---------- */

type DBConfig struct {
	Driver, Host, User, Password, DBName, SSLMode, Path string
	Port                                                int
}

type PolicyConfig struct {
	MinPostmarkTimedelta int // days between filled requests
	MaxEntryAgeDays      int
}

type LabelConfig struct {
	StoragePath   string
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	From, PrintTo string
}

type LogConfig struct {
	Level       string
	Development bool
}

type RateConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	WebHost, JWTSecret string
	WebPort            int
	AuthEnabled        bool
	DB                 DBConfig
	Policy             PolicyConfig
	Label              LabelConfig
	Log                LogConfig
	Rate               RateConfig
	// SearchJurisdictions splits search into one provider per
	// jurisdiction; empty means a single provider over all of them.
	SearchJurisdictions []string
}

/* ---------- loader ---------- */

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("web.host", "0.0.0.0")
	v.SetDefault("web.port", 8080)
	v.SetDefault("auth.enabled", true)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "./casetracker.db")
	v.SetDefault("policy.min_postmark_timedelta", 60)
	v.SetDefault("policy.max_entry_age_days", 90)
	v.SetDefault("label.storage_path", "./labels")
	v.SetDefault("label.smtp.port", 25)
	v.SetDefault("log.level", "info")
	v.SetDefault("rate.rps", 20.0)
	v.SetDefault("rate.burst", 40)
}

// Load reads cfgFile (optional) plus CASETRACKER_* environment variables.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("casetracker")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		_ = v.ReadInConfig() // ignore missing config file
	}

	// ---- OVERRIDE WITH ENV VARS ----
	v.SetEnvPrefix("CASETRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := FromViper(v)

	if c.JWTSecret == "" && c.AuthEnabled {
		return Config{}, fmt.Errorf("jwt_secret is required when auth is enabled")
	}

	// ---- CREATE LABEL SPOOL DIR ----
	if err := os.MkdirAll(c.Label.StoragePath, 0o755); err != nil {
		return Config{}, fmt.Errorf("mkdir label storage: %w", err)
	}

	return c, nil
}

// FromViper copies the settings held by v into a Config.
func FromViper(v *viper.Viper) Config {
	return Config{
		WebHost:     v.GetString("web.host"),
		WebPort:     v.GetInt("web.port"),
		JWTSecret:   v.GetString("jwt_secret"),
		AuthEnabled: v.GetBool("auth.enabled"),
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			Path:     v.GetString("db.path"),
		},
		Policy: PolicyConfig{
			MinPostmarkTimedelta: v.GetInt("policy.min_postmark_timedelta"),
			MaxEntryAgeDays:      v.GetInt("policy.max_entry_age_days"),
		},
		Label: LabelConfig{
			StoragePath:  v.GetString("label.storage_path"),
			SMTPHost:     v.GetString("label.smtp.host"),
			SMTPPort:     v.GetInt("label.smtp.port"),
			SMTPUser:     v.GetString("label.smtp.user"),
			SMTPPassword: v.GetString("label.smtp.password"),
			From:         v.GetString("label.from"),
			PrintTo:      v.GetString("label.print_to"),
		},
		Log: LogConfig{
			Level:       v.GetString("log.level"),
			Development: v.GetBool("log.development"),
		},
		Rate: RateConfig{
			RPS:   v.GetFloat64("rate.rps"),
			Burst: v.GetInt("rate.burst"),
		},
		SearchJurisdictions: v.GetStringSlice("search.jurisdictions"),
	}
}

// Default returns the built-in defaults with no file or environment applied.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	return FromViper(v)
}
