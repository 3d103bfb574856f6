package config

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration for the decode gateway.
type Server struct {
	Addr           string
	Environment    string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   string
	AuditTopic     string
	JWTSigningKey  string
	AdminTokenHash string
	TrustedProxies []netip.Prefix
	CacheTTL       time.Duration
	MaxBodyBytes   int64
}

// Defaults. A QR payload is a few hundred digits; 64 KiB leaves generous
// headroom for the JSON envelope without letting callers stream megabytes.
var (
	DefaultCacheTTL     = 5 * time.Minute
	DefaultMaxBodyBytes = int64(64 * 1024)
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PARICHAY_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	environment := os.Getenv("PARICHAY_ENV")
	if environment == "" {
		environment = "development"
	}

	auditTopic := os.Getenv("AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "parichay.audit"
	}

	cacheTTL := DefaultCacheTTL
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cacheTTL = d
		}
	}

	maxBody := DefaultMaxBodyBytes
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxBody = n
		}
	}

	return Server{
		Addr:           addr,
		Environment:    environment,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		AuditTopic:     auditTopic,
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),
		CacheTTL:       cacheTTL,
		MaxBodyBytes:   maxBody,
	}
}

// parseTrustedProxies parses a comma-separated list of CIDR prefixes.
// Invalid entries are skipped; an empty result means XFF is never trusted.
func parseTrustedProxies(raw string) []netip.Prefix {
	if raw == "" {
		return nil
	}
	var prefixes []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(part); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}
	return prefixes
}
