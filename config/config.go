package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

const ModeProduction = "production"

// JWTConfig drives the token service and the access gate policy.
type JWTConfig struct {
	SecretKey      string        `mapstructure:"secretKey"`
	Issuer         string        `mapstructure:"issuer"`
	Audience       string        `mapstructure:"audience"`
	AccessTokenTTL time.Duration `mapstructure:"accessTokenTTL"`
	// TrustWindow keeps issued tokens valid after deactivation or role change until they expire.
	TrustWindow bool `mapstructure:"trustWindow"`
}

type RateLimitConfig struct {
	Requests      int           `mapstructure:"requests"`
	Window        time.Duration `mapstructure:"window"`
	LoginAttempts int           `mapstructure:"loginAttempts"`
	LoginWindow   time.Duration `mapstructure:"loginWindow"`
}

type BootstrapAdmin struct {
	Handle      string `mapstructure:"handle"`
	Email       string `mapstructure:"email"`
	Password    string `mapstructure:"password"`
	DisplayName string `mapstructure:"displayName"`
	Unit        string `mapstructure:"unit"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Handlers struct {
		ExternalAPI struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"externalAPI"`
		Prometheus struct {
			Port string `mapstructure:"port"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		Timeout time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	JWT  JWTConfig `mapstructure:"jwt"`
	CORS struct {
		AllowedOrigins []string `mapstructure:"allowedOrigins"`
	} `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
	Bootstrap struct {
		Admin BootstrapAdmin `mapstructure:"admin"`
	} `mapstructure:"bootstrap"`
}

// IsProduction reports whether diagnostic details must be hidden from clients.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Mode, ModeProduction)
}

// env overrides for values that should never live in the yml file
var envBindings = map[string]string{
	"mode":                            "APP_MODE",
	"jwt.secretKey":                   "JWT_SECRET",
	"jwt.issuer":                      "JWT_ISSUER",
	"jwt.audience":                    "JWT_AUDIENCE",
	"jwt.accessTokenTTL":              "JWT_ACCESS_TTL",
	"jwt.trustWindow":                 "JWT_TRUST_WINDOW",
	"repositories.postgres.host":      "POSTGRES_HOST",
	"repositories.postgres.port":      "POSTGRES_PORT",
	"repositories.postgres.username":  "POSTGRES_USER",
	"repositories.postgres.password":  "POSTGRES_PASSWORD",
	"repositories.postgres.db":        "POSTGRES_DB",
	"bootstrap.admin.password":        "BOOTSTRAP_ADMIN_PASSWORD",
	"bootstrap.admin.email":           "BOOTSTRAP_ADMIN_EMAIL",
	"handlers.externalAPI.port":       "HTTP_PORT",
	"handlers.prometheus.port":        "METRICS_PORT",
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
