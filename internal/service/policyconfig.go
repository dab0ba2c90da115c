package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/sprintpilot/internal/domain"
)

// policyFile is the on-disk shape of the operator policy defaults. All fields
// are optional; absent fields keep the built-in default.
type policyFile struct {
	MinConfidenceBand   *string  `yaml:"min_confidence_band"`
	MinProbabilityDelta *float64 `yaml:"min_probability_delta"`
	MaxScopeChanges     *int     `yaml:"max_scope_changes"`
	AllowBacklogAdds    *bool    `yaml:"allow_backlog_adds"`
	EnforcePolicy       *bool    `yaml:"enforce_policy"`
}

// LoadPolicyDefaults reads operator policy defaults from a YAML file. An empty
// path or a missing file yields the built-in defaults; a malformed file is an
// error.
func LoadPolicyDefaults(path string) (domain.Policy, error) {
	if path == "" {
		return domain.DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.DefaultPolicy(), nil
		}
		return domain.Policy{}, fmt.Errorf("reading policy file %s: %w", path, err)
	}

	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Policy{}, fmt.Errorf("parsing policy file %s: %w", path, err)
	}

	return domain.ResolvePolicy(domain.DefaultPolicy(), domain.PolicyOverrides{
		MinConfidenceBand:   f.MinConfidenceBand,
		MinProbabilityDelta: f.MinProbabilityDelta,
		MaxScopeChanges:     f.MaxScopeChanges,
		AllowBacklogAdds:    f.AllowBacklogAdds,
		EnforcePolicy:       f.EnforcePolicy,
	}), nil
}
