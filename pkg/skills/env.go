package skills

import (
	"github.com/jmoiron/sqlx"

	"github.com/parakeetlabs/skillet/pkg/gateway"
)

// BasicEnv is the standard Env implementation, composed by the CLI or
// server with whatever collaborators the enabled skills need.
type BasicEnv struct {
	gateway gateway.Client
	db      *sqlx.DB
}

// EnvOption configures a BasicEnv.
type EnvOption func(*BasicEnv)

// WithGateway injects the provider HTTP client.
func WithGateway(client gateway.Client) EnvOption {
	return func(e *BasicEnv) { e.gateway = client }
}

// WithDB injects the shared SQLite database.
func WithDB(db *sqlx.DB) EnvOption {
	return func(e *BasicEnv) { e.db = db }
}

// NewBasicEnv creates an environment with the given collaborators.
// Skills must tolerate missing collaborators and fail inside their
// result envelope.
func NewBasicEnv(opts ...EnvOption) *BasicEnv {
	env := &BasicEnv{}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// Gateway returns the injected provider client, or nil.
func (e *BasicEnv) Gateway() gateway.Client {
	return e.gateway
}

// DB returns the injected database handle, or nil.
func (e *BasicEnv) DB() *sqlx.DB {
	return e.db
}
