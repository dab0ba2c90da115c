package domain

// Policy is the operator-supplied guardrail configuration. A Policy value is
// resolved once per request and is immutable afterwards.
type Policy struct {
	MinConfidenceBand   ConfidenceBand
	MinProbabilityDelta float64
	MaxScopeChanges     int
	AllowBacklogAdds    bool
	EnforcePolicy       bool
}

// PolicyOverrides carries optional per-request overrides on top of a base
// policy. Nil fields leave the base value untouched.
type PolicyOverrides struct {
	MinConfidenceBand   *string
	MinProbabilityDelta *float64
	MaxScopeChanges     *int
	AllowBacklogAdds    *bool
	EnforcePolicy       *bool
}

const (
	minProbabilityDeltaFloor = -10.0
	minProbabilityDeltaCeil  = 25.0
	maxScopeChangesCeil      = 20
)

// DefaultPolicy returns the built-in guardrail defaults.
func DefaultPolicy() Policy {
	return Policy{
		MinConfidenceBand:   BandMedium,
		MinProbabilityDelta: 1.0,
		MaxScopeChanges:     4,
		AllowBacklogAdds:    true,
		EnforcePolicy:       true,
	}
}

// ResolvePolicy applies overrides to a base policy and normalizes the result.
// Out-of-range numeric values are clamped; unknown band strings fall back to
// the base value.
func ResolvePolicy(base Policy, overrides PolicyOverrides) Policy {
	p := base

	if overrides.MinConfidenceBand != nil {
		switch ConfidenceBand(*overrides.MinConfidenceBand) {
		case BandLow, BandMedium, BandHigh:
			p.MinConfidenceBand = ConfidenceBand(*overrides.MinConfidenceBand)
		}
	}
	if overrides.MinProbabilityDelta != nil {
		p.MinProbabilityDelta = *overrides.MinProbabilityDelta
	}
	if overrides.MaxScopeChanges != nil {
		p.MaxScopeChanges = *overrides.MaxScopeChanges
	}
	if overrides.AllowBacklogAdds != nil {
		p.AllowBacklogAdds = *overrides.AllowBacklogAdds
	}
	if overrides.EnforcePolicy != nil {
		p.EnforcePolicy = *overrides.EnforcePolicy
	}

	return p.normalized()
}

func (p Policy) normalized() Policy {
	switch p.MinConfidenceBand {
	case BandLow, BandMedium, BandHigh:
	default:
		p.MinConfidenceBand = BandMedium
	}
	if p.MinProbabilityDelta < minProbabilityDeltaFloor {
		p.MinProbabilityDelta = minProbabilityDeltaFloor
	}
	if p.MinProbabilityDelta > minProbabilityDeltaCeil {
		p.MinProbabilityDelta = minProbabilityDeltaCeil
	}
	if p.MaxScopeChanges < 0 {
		p.MaxScopeChanges = 0
	}
	if p.MaxScopeChanges > maxScopeChangesCeil {
		p.MaxScopeChanges = maxScopeChangesCeil
	}
	return p
}
