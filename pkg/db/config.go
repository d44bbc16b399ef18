package db

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config holds PostgreSQL connection and pool parameters.
// Fields are decoded from the application YAML config on top of DefaultConfig.
type Config struct {
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`

	// Charset maps to the client_encoding runtime parameter.
	Charset string `yaml:"charset"`
	SSLMode string `yaml:"sslmode"`

	// Health check frequency to detect broken idle connections.
	HealthCheckPeriod time.Duration `yaml:"health_check_period"`

	// Force connection refresh so long-lived connections follow failovers.
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`

	// Startup retries for transient network failures. Attempt n waits n*RetryInterval.
	RetryInterval time.Duration `yaml:"retry_interval"`

	// StatementTimeout bounds a single statement. Zero means no limit.
	StatementTimeout time.Duration `yaml:"statement_timeout"`

	Port          int `yaml:"port"`
	RetryAttempts int `yaml:"retry_attempts"`

	// Pool bounds. MaxSize is at least 1; MinSize is clamped to [0, MaxSize].
	MaxSize int32 `yaml:"maxsize"`
	MinSize int32 `yaml:"minsize"`

	// AutoCommit makes Executor.Execute commit each statement on its own.
	// When false, Execute wraps every statement in a transaction.
	AutoCommit bool `yaml:"autocommit"`
}

// DefaultConfig returns the configuration used when a value is not set.
func DefaultConfig() Config {
	return Config{
		Host:              "localhost",
		Port:              5432,
		Charset:           "utf8",
		SSLMode:           "disable",
		AutoCommit:        true,
		MaxSize:           10,
		MinSize:           1,
		RetryAttempts:     3,
		RetryInterval:     2 * time.Second,
		HealthCheckPeriod: time.Minute,
		MaxConnIdleTime:   10 * time.Minute,
		MaxConnLifetime:   30 * time.Minute,
	}
}

// ConnString renders the config as a postgres:// URL understood by pgx.
func (c Config) ConnString() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/" + c.Name,
	}
	switch {
	case c.User != "" && c.Password != "":
		u.User = url.UserPassword(c.User, c.Password)
	case c.User != "":
		u.User = url.User(c.User)
	}

	q := url.Values{}
	if enc := clientEncoding(c.Charset); enc != "" {
		q.Set("client_encoding", enc)
	}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// poolBounds returns the effective max and min pool sizes.
func (c Config) poolBounds() (maxConns, minConns int32) {
	maxConns = max(c.MaxSize, 1)
	minConns = min(max(c.MinSize, 0), maxConns)
	return maxConns, minConns
}

// clientEncoding translates MySQL-style charset names to PostgreSQL encodings.
func clientEncoding(charset string) string {
	switch cs := strings.ToLower(strings.TrimSpace(charset)); cs {
	case "":
		return ""
	case "utf8", "utf-8", "utf8mb4":
		return "UTF8"
	case "latin1":
		return "LATIN1"
	default:
		return strings.ToUpper(cs)
	}
}
