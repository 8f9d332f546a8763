package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parakeetlabs/skillet/pkg/db"
	"github.com/parakeetlabs/skillet/pkg/logger"
	"github.com/parakeetlabs/skillet/pkg/presenter"
	"github.com/parakeetlabs/skillet/pkg/server"
	"github.com/parakeetlabs/skillet/pkg/skills"
	"github.com/parakeetlabs/skillet/pkg/skills/notes"
	"github.com/parakeetlabs/skillet/pkg/telemetry"
	"github.com/parakeetlabs/skillet/pkg/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skills over HTTP",
	Long: `Start an HTTP server exposing every registered skill. Skill state
(the knowledge-base corpus) lives for the server's lifetime.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		host, err := cmd.Flags().GetString("host")
		if err != nil {
			return err
		}
		port, err := cmd.Flags().GetInt("port")
		if err != nil {
			return err
		}
		return runServe(cmd.Context(), host, port)
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Int("port", 8080, "Port to bind to")
}

func runServe(ctx context.Context, host string, port int) error {
	shutdownTracer, err := telemetry.InitTracer(ctx, telemetry.Config{
		Enabled:        viper.GetBool("tracing.enabled"),
		ServiceName:    "skillet",
		ServiceVersion: version.Get().Version,
		SamplerType:    viper.GetString("tracing.sampler"),
		SamplerRatio:   viper.GetFloat64("tracing.ratio"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to initialize tracing")
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.G(ctx).WithError(err).Warn("failed to shut down tracer")
		}
	}()

	client, err := gatewayFromConfig()
	if err != nil {
		return errors.Wrap(err, "failed to build gateway client")
	}
	opts := []skills.EnvOption{skills.WithGateway(client)}

	// The notes database is optional: without it the notes skill
	// reports a storage error per invocation instead of blocking the
	// whole server.
	dbPath, err := db.DefaultDBPath()
	if err == nil {
		if database, err := db.Open(ctx, dbPath); err != nil {
			presenter.Warning("notes database unavailable: " + err.Error())
		} else if err := db.RunMigrations(ctx, database, notes.Migrations); err != nil {
			database.Close()
			presenter.Warning("notes database migration failed: " + err.Error())
		} else {
			defer database.Close()
			opts = append(opts, skills.WithDB(database))
		}
	}

	srv, err := server.New(
		&server.Config{Host: host, Port: port},
		skills.NewBasicEnv(opts...),
		skills.All(),
	)
	if err != nil {
		return err
	}

	return srv.Start(ctx)
}
