package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Constraint is an optional semver range (">= 11, < 14") applied on top of
// the floor when selecting releases.
type Constraint struct {
	raw string
	c   *semver.Constraints
}

// ParseConstraint compiles a semver constraint expression. An empty
// expression yields a nil Constraint, which accepts everything.
func ParseConstraint(expr string) (*Constraint, error) {
	if expr == "" {
		return nil, nil
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing version constraint %q: %w", expr, err)
	}
	return &Constraint{raw: expr, c: c}, nil
}

// Check reports whether v satisfies the constraint. Only the first three
// segments take part; Minimum never satisfies a non-nil constraint.
func (c *Constraint) Check(v Version) bool {
	if c == nil {
		return true
	}
	if !v.Valid() {
		return false
	}
	sv := semver.New(v.Segment(0), v.Segment(1), v.Segment(2), "", "")
	return c.c.Check(sv)
}

func (c *Constraint) String() string {
	if c == nil {
		return ""
	}
	return c.raw
}
