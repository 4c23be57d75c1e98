// Package config loads environment/.env-driven configuration: the JWT
// secret and SQLite DSN the surrounding tooling needs, the HTTP listen
// address, and the resolver knobs (CreateFullBindingGraph,
// AheadOfTimeSubcomponents,
// IgnorePrivateAndStaticInjectionForComponent). Every setting has a
// default; environment variables override, and a .env file feeds the
// environment when present.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the resolved, typed configuration for one bindgraph run.
type Config struct {
	HTTP     HTTPConfig
	Store    StoreConfig
	Guard    GuardConfig
	Resolver ResolverConfig
}

// HTTPConfig configures the inspection server.
type HTTPConfig struct {
	ListenAddr string
}

// StoreConfig configures the run-persistence layer.
type StoreConfig struct {
	DSN string
}

// GuardConfig configures the JWT guard protecting httpserver.
type GuardConfig struct {
	Secret    string
	TokenTTLS int
}

// ResolverConfig mirrors graph.Config's boolean knobs,
// kept as plain fields here since config must not import graph; it
// is consumed one layer up, in cmd/bindgraph, which does both imports.
type ResolverConfig struct {
	CreateFullBindingGraph                      bool
	AheadOfTimeSubcomponents                    bool
	IgnorePrivateAndStaticInjectionForComponent bool
}

// Load reads .env (if present) and populates a Config from environment
// variables. Call once at CLI startup.
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	_ = godotenv.Load(files...) // non-fatal: .env may not exist

	return &Config{
		HTTP: HTTPConfig{
			ListenAddr: env("BINDGRAPH_HTTP_ADDR", ":8080"),
		},
		Store: StoreConfig{
			DSN: env("BINDGRAPH_DB_DSN", "bindgraph.db"),
		},
		Guard: GuardConfig{
			Secret:    env("BINDGRAPH_JWT_SECRET", ""),
			TokenTTLS: envInt("BINDGRAPH_JWT_TTL_SECONDS", 3600),
		},
		Resolver: ResolverConfig{
			CreateFullBindingGraph:                      envBool("BINDGRAPH_FULL_GRAPH", false),
			AheadOfTimeSubcomponents:                    envBool("BINDGRAPH_AHEAD_OF_TIME_SUBCOMPONENTS", false),
			IgnorePrivateAndStaticInjectionForComponent: envBool("BINDGRAPH_IGNORE_PRIVATE_STATIC_INJECTION", false),
		},
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
