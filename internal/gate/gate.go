// Package gate holds the single decision point for whether a purchase is
// attempted. Decide is a pure function so the judgment stays testable
// without any network access.
package gate

import (
	"fmt"

	"memescout-go/internal/risk"
)

// Policy enumerates the recognized purchase thresholds. The zero value
// proceeds on nothing.
type Policy struct {
	// RequireStatus lists the statuses allowed to proceed.
	RequireStatus []risk.Status
	// MinScore, when set, is the numeric floor an assessment score must
	// meet. Absent scores pass the floor.
	MinScore *float64
	// AllowUnverified is the explicit escape hatch for Unknown and Error
	// statuses. Without it they fail closed even when listed in
	// RequireStatus.
	AllowUnverified bool
	// MaxNotionalLamports caps per-trade size; zero means uncapped.
	MaxNotionalLamports uint64
}

// DefaultPolicy proceeds on Safe only and fails closed on everything else.
func DefaultPolicy() Policy {
	return Policy{RequireStatus: []risk.Status{risk.StatusSafe}}
}

// PolicyFromStrings builds a policy from config-level status strings.
func PolicyFromStrings(statuses []string, minScore *float64, allowUnverified bool, maxNotional uint64) Policy {
	p := Policy{MinScore: minScore, AllowUnverified: allowUnverified, MaxNotionalLamports: maxNotional}
	for _, raw := range statuses {
		s := risk.Status(raw)
		if !s.IsValid() {
			s = risk.ParseStatus(raw)
		}
		p.RequireStatus = append(p.RequireStatus, s)
	}
	if len(p.RequireStatus) == 0 {
		p.RequireStatus = []risk.Status{risk.StatusSafe}
	}
	return p
}

func (p Policy) allows(status risk.Status) bool {
	for _, s := range p.RequireStatus {
		if s == status {
			return true
		}
	}
	return false
}

// AllowNotional reports whether a trade of the given size fits the cap.
func (p Policy) AllowNotional(lamports uint64) bool {
	return p.MaxNotionalLamports == 0 || lamports <= p.MaxNotionalLamports
}

// Decision is the verdict for one assessment; it exists only within one
// orchestration pass.
type Decision struct {
	Proceed bool
	Reason  string
}

// Decide applies the policy to an assessment. Unknown and Error statuses
// fail closed unless the policy both lists them and sets AllowUnverified.
func Decide(a risk.Assessment, p Policy) Decision {
	if !p.allows(a.Status) {
		return Decision{Proceed: false, Reason: fmt.Sprintf("status %s not in required set", a.Status)}
	}
	if (a.Status == risk.StatusUnknown || a.Status == risk.StatusError) && !p.AllowUnverified {
		return Decision{Proceed: false, Reason: fmt.Sprintf("status %s requires explicit allow_unverified", a.Status)}
	}
	if p.MinScore != nil && a.Score != nil && *a.Score < *p.MinScore {
		return Decision{Proceed: false, Reason: fmt.Sprintf("score %.2f below floor %.2f", *a.Score, *p.MinScore)}
	}
	return Decision{Proceed: true, Reason: fmt.Sprintf("status %s within policy", a.Status)}
}
