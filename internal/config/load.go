package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TATAME_SERVER_PORT.
const EnvPrefix = "TATAME"

// Load configuration from environment variables and optionally a config file
// named config.yaml in the working directory.
// Environment variables take precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom loads configuration using the supplied viper instance, which lets
// callers (the CLI, tests) point it at an explicit config file first.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "postgres")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 60*24*7)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.reset_token_lifetime_minutes", 60)

	v.SetDefault("payment.plan_name", "Plano Faixa Preta")
	v.SetDefault("payment.monthly_price", "R$ 29,90")
	v.SetDefault("payment.benefits", []string{
		"Acesso ilimitado ao diário de treinos",
		"Banco de técnicas sem limite",
		"Criação e acompanhamento de metas ilimitadas",
		"Resumo mensal de evolução detalhado",
		"Suporte prioritário",
		"Backup automático dos seus dados",
	})

	v.SetDefault("rate_limit.auth_requests_per_minute", 10)
	v.SetDefault("rate_limit.auth_burst", 5)
}

// bindEnvs registers every key explicitly. AutomaticEnv alone only applies
// to keys viper already knows about, so values without a default (the
// database url, jwt secret, checkout url) would otherwise be missed by
// Unmarshal.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.log_level",
		"server.allowed_origins",
		"database.driver",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.refresh_token_lifetime_minutes",
		"auth.bcrypt_cost",
		"auth.reset_token_lifetime_minutes",
		"auth.reset_url",
		"payment.checkout_url",
		"payment.plan_name",
		"payment.monthly_price",
		"payment.benefits",
		"rate_limit.auth_requests_per_minute",
		"rate_limit.auth_burst",
	}
	for _, key := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}
