// Package skills defines the contract between the skill runtime and
// individual skill handlers: the Skill interface, the environment the
// host injects into every call, and the result envelope handlers
// return. Handlers never return Go errors from Execute and never
// panic past the boundary; failures travel inside the Result.
package skills

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/parakeetlabs/skillet/pkg/gateway"
)

// Skill is a single capability exposed to the host runtime. Parameters
// arrive as a JSON string matching the schema from GenerateSchema.
type Skill interface {
	GenerateSchema() *jsonschema.Schema
	Name() string
	Description() string
	ValidateInput(env Env, parameters string) error
	Execute(ctx context.Context, env Env, parameters string) Result
	TracingKVs(parameters string) ([]attribute.KeyValue, error)
}

// Env carries the collaborators the host injects into skill calls.
// Fully local skills (e.g. the knowledge base) accept it and ignore
// it; API-wrapping skills pull the gateway client or database from it.
type Env interface {
	Gateway() gateway.Client
	DB() *sqlx.DB
}

// Result is the outcome of a single skill invocation. Code carries a
// machine-readable error code (e.g. NOT_FOUND) when the invocation
// failed for a reason the caller can act on; Error carries the
// human-readable detail.
type Result struct {
	Result   string   `json:"result"`
	Error    string   `json:"error,omitempty"`
	Code     string   `json:"code,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// IsError reports whether the invocation failed.
func (r Result) IsError() bool {
	return r.Error != "" || r.Code != ""
}

func (r Result) String() string {
	out := ""
	if r.Error != "" {
		msg := r.Error
		if r.Code != "" {
			msg = fmt.Sprintf("%s: %s", r.Code, r.Error)
		}
		out = fmt.Sprintf(`<error>
%s
</error>
`, msg)
	}
	if r.Result != "" {
		out += fmt.Sprintf(`<result>
%s
</result>
`, r.Result)
	}
	return out
}

// Errorf builds a failed Result with a machine-readable code.
func Errorf(code string, format string, args ...any) Result {
	return Result{Code: code, Error: fmt.Sprintf(format, args...)}
}
