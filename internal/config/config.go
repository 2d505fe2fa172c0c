package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hotelhub/service-booking/internal/common/config"
)

// ServiceName identifies the service in logs, health checks and event sources.
const ServiceName = "service-booking"

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       config.DatabaseConfig
	JWTConfig      config.JWTConfig
	KafkaConfig    config.KafkaConfig
	Location       *time.Location
	AllowedOrigins []string
}

// Load reads configuration from HOTEL_* environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("HOTEL")
	if err != nil {
		return nil, err
	}

	tz := v.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid HOTEL_TIMEZONE %q: %w", tz, err)
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &ServiceConfig{
		Port:           config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:         config.GetAppEnv(v),
		DBConfig:       config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:      config.LoadJWTConfig(v),
		KafkaConfig:    config.LoadKafkaConfig(v),
		Location:       loc,
		AllowedOrigins: origins,
	}, nil
}
