package skills

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/parakeetlabs/skillet/pkg/logger"
	"github.com/parakeetlabs/skillet/pkg/telemetry"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Run executes one skill invocation: validate input, then execute,
// wrapped in a span carrying the skill's tracing attributes. Failures
// are returned inside the Result envelope, never as panics.
func Run(ctx context.Context, env skilltypes.Env, skill skilltypes.Skill, parameters string) skilltypes.Result {
	kvs, err := skill.TracingKVs(parameters)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to build tracing attributes")
	}

	ctx, span := telemetry.Tracer("skillet").Start(
		ctx,
		fmt.Sprintf("skills.run.%s", skill.Name()),
		trace.WithAttributes(kvs...),
	)
	defer span.End()

	if err := skill.ValidateInput(env, parameters); err != nil {
		span.SetStatus(codes.Error, err.Error())
		var coded *skilltypes.CodedError
		if errors.As(err, &coded) {
			return skilltypes.Errorf(coded.Code, "%s", coded.Message)
		}
		return skilltypes.Result{Error: err.Error()}
	}

	result := skill.Execute(ctx, env, parameters)

	if result.IsError() {
		span.SetStatus(codes.Error, result.Error)
		span.RecordError(errors.New(result.Error))
		logger.G(ctx).WithField("skill", skill.Name()).
			WithField("code", result.Code).
			Debug("skill invocation failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return result
}

// RunByName looks a skill up in the given set and executes it.
func RunByName(ctx context.Context, env skilltypes.Env, available []skilltypes.Skill, name, parameters string) skilltypes.Result {
	for _, skill := range available {
		if skill.Name() == name {
			return Run(ctx, env, skill, parameters)
		}
	}
	return skilltypes.Result{Error: fmt.Sprintf("skill %s not found", name)}
}
