package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SessionBackend selects where session records live.
type SessionBackend string

const (
	// SessionBackendMemory keeps sessions in a process-local map.
	SessionBackendMemory SessionBackend = "memory"
	// SessionBackendRedis keeps sessions in Redis with native key TTLs.
	SessionBackendRedis SessionBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for SessionBackend.
func (b *SessionBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "memory", "redis":
		*b = SessionBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid SessionBackend: %q (valid options: memory, redis)", v)
	}
}

// SessionConfig controls the session store.
type SessionConfig struct {
	Backend SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`

	// TempTTL bounds how long a login may wait between phases.
	TempTTL time.Duration `env:"SESSION_TEMP_TTL" envDefault:"5m"`

	// SweepInterval is how often lapsed in-memory records are purged. 0 disables the janitor.
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`

	// RedisPrefix namespaces session keys when Backend=redis.
	RedisPrefix string `env:"SESSION_REDIS_PREFIX" envDefault:"tgchat:session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = SessionBackendMemory
	}
	if c.TempTTL <= 0 {
		c.TempTTL = 5 * time.Minute
	}
	if c.SweepInterval < 0 {
		c.SweepInterval = 0
	}
	c.RedisPrefix = strings.TrimSpace(c.RedisPrefix)
}

// Validate reports unusable session settings.
func (c *SessionConfig) Validate() error {
	if c.Backend == SessionBackendRedis && c.RedisPrefix == "" {
		return errors.New("SESSION_REDIS_PREFIX must not be empty when SESSION_BACKEND=redis")
	}
	return nil
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
