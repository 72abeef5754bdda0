package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"filemarket/internal/approval"

	"github.com/joho/godotenv"
)

// Common is shared by every binary.
type Common struct {
	Env              string
	DatabaseURL      string
	NatsURL          string
	OtelCollectorURL string

	// Prefix for cover object keys, e.g. https://assets.example.com/public/
	PublicAssetBaseURL string
}

// Gateway configures the HTTP API.
type Gateway struct {
	Common

	APIPort        string
	FrontendOrigin string

	// Redis
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisPoolSize     int
	RedisMinIdleConns int
	PublicCacheTTL    time.Duration

	// Object storage
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	S3UseSSL       bool
	CoverMaxSize   int64
	CoverUploadTTL time.Duration

	// OIDC
	AuthorizationURL string
	AuthClientID     string

	// Nil means the default policy.
	GatedFields []approval.Field
}

// Indexer configures the search worker.
type Indexer struct {
	Common

	Port         string
	TypesenseURL string
	TypesenseKey string
}

type env struct {
	err error
}

func (e *env) get(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// required records the first missing variable and returns "".
func (e *env) required(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		if e.err == nil {
			e.err = fmt.Errorf("missing required environment variable: %s", key)
		}
		return ""
	}
	return value
}

func (e *env) getInt(key string, defaultValue int) int {
	raw := e.get(key, strconv.Itoa(defaultValue))
	v, err := strconv.Atoi(raw)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (e *env) getBool(key string, defaultValue bool) bool {
	raw := e.get(key, strconv.FormatBool(defaultValue))
	v, err := strconv.ParseBool(raw)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (e *env) getSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(e.getInt(key, defaultValue)) * time.Second
}

func (e *env) common() Common {
	return Common{
		Env:                e.get("APP_ENV", "production"),
		DatabaseURL:        e.required("DB_DSN"),
		NatsURL:            e.get("NATS_ENDPOINT", "nats://localhost:4222"),
		OtelCollectorURL:   e.get("OTEL_COLLECTOR_URL", ""),
		PublicAssetBaseURL: e.get("PUBLIC_ASSET_BASE_URL", ""),
	}
}

// LoadGateway reads the gateway configuration. A .env file is loaded first if present.
func LoadGateway() (*Gateway, error) {
	godotenv.Load()

	e := &env{}
	cfg := &Gateway{
		Common:            e.common(),
		APIPort:           e.get("API_PORT", "8080"),
		FrontendOrigin:    e.get("DOMAIN_NAME", "http://localhost:3000"),
		RedisAddr:         e.get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     e.get("REDIS_PASSWORD", ""),
		RedisDB:           e.getInt("REDIS_DB", 0),
		RedisPoolSize:     e.getInt("REDIS_POOL_SIZE", 0),
		RedisMinIdleConns: e.getInt("REDIS_MIN_IDLE_CONNS", 0),
		PublicCacheTTL:    e.getSeconds("PUBLIC_CACHE_TTL_SECONDS", 300),
		S3Endpoint:        e.required("S3_ENDPOINT"),
		S3AccessKey:       e.required("GATEWAY_S3_ACCESS_KEY_ID"),
		S3SecretKey:       e.required("GATEWAY_S3_SECRET_ACCESS_KEY"),
		S3UseSSL:          e.getBool("S3_USE_SSL", false),
		CoverMaxSize:      int64(e.getInt("COVER_MAX_SIZE_MB", 10)) << 20,
		CoverUploadTTL:    e.getSeconds("COVER_UPLOAD_WINDOW_SECONDS", 900),
		AuthorizationURL:  e.required("AUTHORIZATION_URL"),
		AuthClientID:      e.required("AUTHORIZATION_CLIENT_ID"),
	}
	if e.err != nil {
		return nil, e.err
	}

	if raw := e.get("APPROVAL_GATED_FIELDS", ""); raw != "" {
		fields, err := approval.ParseFields(strings.Split(raw, ","))
		if err != nil {
			return nil, fmt.Errorf("invalid APPROVAL_GATED_FIELDS: %w", err)
		}
		cfg.GatedFields = fields
	}

	return cfg, nil
}

// Policy builds the approval policy from GatedFields.
func (g *Gateway) Policy() *approval.Policy {
	if g.GatedFields == nil {
		return approval.DefaultPolicy()
	}
	return approval.NewPolicy(g.GatedFields...)
}

// LoadIndexer reads the search worker configuration.
func LoadIndexer() (*Indexer, error) {
	godotenv.Load()

	e := &env{}
	cfg := &Indexer{
		Common:       e.common(),
		Port:         e.get("INDEX_WORKER_PORT", "8081"),
		TypesenseURL: e.required("TYPESENSE_URL"),
		TypesenseKey: e.required("TYPESENSE_API_KEY"),
	}
	if e.err != nil {
		return nil, e.err
	}
	return cfg, nil
}
