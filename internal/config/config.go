package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthIssuer     string `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL    string `mapstructure:"AUTH_JWKS_URL"`
	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`

	// Recipients for critical drug-interaction alerts.
	AlertEmail string `mapstructure:"ALERT_EMAIL"`
	AlertSMS   string `mapstructure:"ALERT_SMS"`

	// Cross-reactivity thresholds for allergy risk grading. These are
	// clinical policy, reviewed per deployment, not algorithmic truth.
	CrossReactivitySevereHigh   float64 `mapstructure:"CROSS_REACTIVITY_SEVERE_HIGH"`
	CrossReactivityModerateHigh float64 `mapstructure:"CROSS_REACTIVITY_MODERATE_HIGH"`
	CrossReactivityModerateMed  float64 `mapstructure:"CROSS_REACTIVITY_MODERATE_MEDIUM"`
	CrossReactivityMildMed      float64 `mapstructure:"CROSS_REACTIVITY_MILD_MEDIUM"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("ALERT_EMAIL", "pharmacy-oncall@localhost")
	v.SetDefault("CROSS_REACTIVITY_SEVERE_HIGH", 0.5)
	v.SetDefault("CROSS_REACTIVITY_MODERATE_HIGH", 0.8)
	v.SetDefault("CROSS_REACTIVITY_MODERATE_MEDIUM", 0.3)
	v.SetDefault("CROSS_REACTIVITY_MILD_MEDIUM", 0.8)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_SIGNING_KEY")
	v.BindEnv("ALERT_EMAIL")
	v.BindEnv("ALERT_SMS")
	v.BindEnv("CROSS_REACTIVITY_SEVERE_HIGH")
	v.BindEnv("CROSS_REACTIVITY_MODERATE_HIGH")
	v.BindEnv("CROSS_REACTIVITY_MODERATE_MEDIUM")
	v.BindEnv("CROSS_REACTIVITY_MILD_MEDIUM")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: Unauthenticated requests get physician access. Do NOT use in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. Outside development
// an auth issuer or signing key must be present, and every cross-reactivity
// threshold must be a probability.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" && c.AuthSigningKey == "" {
		return fmt.Errorf("AUTH_ISSUER or AUTH_SIGNING_KEY must be set when ENV=%q; refusing to start without authentication", c.Env)
	}
	for name, val := range map[string]float64{
		"CROSS_REACTIVITY_SEVERE_HIGH":     c.CrossReactivitySevereHigh,
		"CROSS_REACTIVITY_MODERATE_HIGH":   c.CrossReactivityModerateHigh,
		"CROSS_REACTIVITY_MODERATE_MEDIUM": c.CrossReactivityModerateMed,
		"CROSS_REACTIVITY_MILD_MEDIUM":     c.CrossReactivityMildMed,
	} {
		if val < 0 || val > 1 {
			return fmt.Errorf("%s must be in [0,1], got %v", name, val)
		}
	}
	if c.CrossReactivityModerateMed > c.CrossReactivityModerateHigh {
		return fmt.Errorf("CROSS_REACTIVITY_MODERATE_MEDIUM (%v) must not exceed CROSS_REACTIVITY_MODERATE_HIGH (%v)",
			c.CrossReactivityModerateMed, c.CrossReactivityModerateHigh)
	}
	return nil
}
