package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/parakeetlabs/skillet/pkg/db"
	"github.com/parakeetlabs/skillet/pkg/logger"
	"github.com/parakeetlabs/skillet/pkg/presenter"
	"github.com/parakeetlabs/skillet/pkg/skills"
	"github.com/parakeetlabs/skillet/pkg/skills/notes"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

var runCmd = &cobra.Command{
	Use:   "run <skill>",
	Short: "Invoke a single skill",
	Long: `Invoke a single skill with JSON parameters and print the result.

Examples:
  skillet run knowledge_base --params '{"action":"add","key":"go","content":"Go is a compiled language"}'
  skillet run knowledge_base --params '{"action":"search","query":"compiled"}'
  skillet run stock_quote --params '{"symbol":"AAPL"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := cmd.Flags().GetString("params")
		if err != nil {
			return err
		}
		showMetadata, err := cmd.Flags().GetBool("metadata")
		if err != nil {
			return err
		}
		return runSkill(cmd.Context(), args[0], params, showMetadata)
	},
}

func init() {
	runCmd.Flags().String("params", "{}", "Skill parameters as a JSON object")
	runCmd.Flags().Bool("metadata", false, "Print the structured result as JSON instead of text")
}

func runSkill(ctx context.Context, name, params string, showMetadata bool) error {
	if err := skills.ValidateNames([]string{name}); err != nil {
		return err
	}

	instances, err := skills.FromNames([]string{name})
	if err != nil {
		return err
	}
	skill := instances[0]

	env, cleanup, err := buildEnv(ctx, name)
	if err != nil {
		return err
	}
	defer cleanup()

	result := skills.Run(ctx, env, skill, params)

	if showMetadata {
		encoded, err := json.MarshalIndent(result.Structured(skill.Name()), "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode structured result")
		}
		fmt.Println(string(encoded))
		return nil
	}

	if result.IsError() {
		msg := result.Error
		if result.Code != "" {
			msg = fmt.Sprintf("%s: %s", result.Code, result.Error)
		}
		presenter.Error(errors.New(msg), fmt.Sprintf("skill %s failed", skill.Name()))
		return nil
	}

	presenter.Info(result.Result)
	return nil
}

// buildEnv composes the environment for one invocation. The database
// is only opened for skills that persist data.
func buildEnv(ctx context.Context, skillName string) (skilltypes.Env, func(), error) {
	opts := []skills.EnvOption{}
	cleanup := func() {}

	client, err := gatewayFromConfig()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build gateway client")
	}
	opts = append(opts, skills.WithGateway(client))

	if skillName == "notes" {
		dbPath, err := db.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
		database, err := db.Open(ctx, dbPath)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to open notes database")
		}
		if err := db.RunMigrations(ctx, database, notes.Migrations); err != nil {
			database.Close()
			return nil, nil, errors.Wrap(err, "failed to migrate notes database")
		}
		opts = append(opts, skills.WithDB(database))
		cleanup = func() {
			if err := database.Close(); err != nil {
				logger.G(ctx).WithError(err).Warn("failed to close database")
			}
		}
	}

	return skills.NewBasicEnv(opts...), cleanup, nil
}
