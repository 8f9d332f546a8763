package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/parakeetlabs/skillet/pkg/presenter"
	"github.com/parakeetlabs/skillet/pkg/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the available skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		return listSkills(output)
	},
}

func init() {
	skillsCmd.Flags().String("output", "text", "Output format (text, yaml)")
}

// catalogEntry is one skill in the catalog listing.
type catalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

func listSkills(output string) error {
	catalog := make([]catalogEntry, 0)
	for _, skill := range skills.All() {
		catalog = append(catalog, catalogEntry{
			Name:        skill.Name(),
			Description: skill.Description(),
		})
	}

	switch output {
	case "yaml":
		encoded, err := yaml.Marshal(catalog)
		if err != nil {
			return errors.Wrap(err, "failed to encode catalog")
		}
		fmt.Print(string(encoded))
	case "text":
		presenter.Section("Available skills")
		for _, entry := range catalog {
			summary := entry.Description
			if idx := strings.IndexByte(summary, '\n'); idx >= 0 {
				summary = summary[:idx]
			}
			presenter.Info(fmt.Sprintf("- %s: %s", entry.Name, summary))
		}
	default:
		return errors.Errorf("unknown output format %q (expected text or yaml)", output)
	}
	return nil
}
