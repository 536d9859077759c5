package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port             string
	ConsulAddress    string
	ServiceName      string
	ServiceID        string
	ServiceAddress   string
	ServiceTags      []string
	HealthCheckPath  string
	RabbitMQUser     string
	RabbitMQPassword string
	RabbitMQPort     string
	JWTSecret        string

	// Role thresholds. Privilege ordering is decided against these, never
	// against magic numbers at call sites.
	AdminLevel int
	TopLevel   int

	// Invite issuing.
	InviteQuota int64

	// Tenant lifecycle.
	PurgeBatchSize      int
	PurgeTimeoutMinutes int
	RetentionDays       int
	SweepIntervalHours  int
	SweepAutoExecute    bool
}

func init() {
	ServiceConfig = New()
}

var ServiceConfig *Config

func New() *Config {
	return &Config{
		Port:             getEnv("PORT", "9200"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", ""),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", ""),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", ""),
		ConsulAddress:    "consul-server:" + getEnv("CONSUL_PORT", "8500"),
		ServiceName:      getEnv("TENANCY_SERVICE_NAME", "tenancy-service"),
		ServiceID:        getEnv("TENANCY_SERVICE_NAME", "tenancy-service") + "-" + getEnv("TENANCY_HOSTNAME", "1"),
		ServiceAddress:   getEnv("TENANCY_SERVICE_ADDRESS", "tenancy-service"),
		ServiceTags:      splitTags(getEnv("TENANCY_SERVICE_TAGS", "tenancy,rbac")),
		HealthCheckPath:  getEnv("HEALTH_CHECK_PATH", "/health"),
		JWTSecret:        getEnv("JWT_SECRET", ""),

		AdminLevel: getEnvInt("ROLE_ADMIN_LEVEL", 80),
		TopLevel:   getEnvInt("ROLE_TOP_LEVEL", 100),

		InviteQuota: int64(getEnvInt("INVITE_QUOTA", 5)),

		// Batch size stays well below the store's hard per-call ceiling.
		PurgeBatchSize:      getEnvInt("PURGE_BATCH_SIZE", 400),
		PurgeTimeoutMinutes: getEnvInt("PURGE_TIMEOUT_MINUTES", 10),
		RetentionDays:       getEnvInt("TENANT_RETENTION_DAYS", 30),
		SweepIntervalHours:  getEnvInt("SWEEP_INTERVAL_HOURS", 24),
		SweepAutoExecute:    getEnvBool("SWEEP_AUTO_EXECUTE", false),
	}
}

func splitTags(raw string) []string {
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Error Retriving ENV: %s not exist", key)
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("Invalid int value for ENV %s: %s", key, value)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Invalid bool value for ENV %s: %s", key, value)
	}
	return fallback
}
