// Package skills provides the skill execution runtime: the registry
// of available skills, the environment composed for them, and the
// Run entrypoint that validates, traces and executes an invocation.
package skills

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/parakeetlabs/skillet/pkg/skills/knowledgebase"
	"github.com/parakeetlabs/skillet/pkg/skills/notes"
	"github.com/parakeetlabs/skillet/pkg/skills/quote"
	"github.com/parakeetlabs/skillet/pkg/skills/rss"
	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// registry maps skill names to constructors. Constructors rather than
// instances: stateful skills (the knowledge base owns its corpus) get
// a fresh instance per composition.
var registry = map[string]func() skilltypes.Skill{
	"knowledge_base": func() skilltypes.Skill { return knowledgebase.NewSkill() },
	"notes":          func() skilltypes.Skill { return notes.NewSkill() },
	"stock_quote":    func() skilltypes.Skill { return quote.NewSkill() },
	"rss_headlines":  func() skilltypes.Skill { return rss.NewSkill() },
}

// Names returns the registered skill names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateNames checks that every name is registered, aggregating all
// unknown names into one error.
func ValidateNames(names []string) error {
	var result *multierror.Error
	for _, name := range names {
		if _, exists := registry[name]; !exists {
			result = multierror.Append(result, errors.Errorf("unknown skill: %s", name))
		}
	}
	return result.ErrorOrNil()
}

// FromNames instantiates the named skills in the order given.
func FromNames(names []string) ([]skilltypes.Skill, error) {
	if err := ValidateNames(names); err != nil {
		return nil, err
	}
	instances := make([]skilltypes.Skill, 0, len(names))
	for _, name := range names {
		instances = append(instances, registry[name]())
	}
	return instances, nil
}

// All instantiates every registered skill, sorted by name.
func All() []skilltypes.Skill {
	instances, _ := FromNames(Names())
	return instances
}
