package config

import "time"

// ServiceName prefixes environment variables and names config files.
const ServiceName = "moviebrowser"

// Provider kinds.
const (
	ProviderREST    = "rest"
	ProviderGraphQL = "graphql"
)

// Storage backends.
const (
	StorageBadger = "badger"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

const (
	// Provider defaults.
	DefaultRESTBaseURL     = "https://api.themoviedb.org/3"
	DefaultGraphQLEndpoint = "http://localhost:4000/graphql"
	DefaultProviderTimeout = 10 * time.Second
	DefaultRateLimit       = 20
	DefaultBurst           = 5

	// Circuit breaker defaults.
	DefaultFailureThreshold = 5
	DefaultOpenTimeout      = 30 * time.Second

	// Persistence defaults.
	DefaultWriteTimeout = 5 * time.Second
)
