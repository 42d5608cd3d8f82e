// Package version implements Safulate's `req` version-constraint grammar:
// parsing `vMAJOR[.MINOR[.PATCH]]` atoms, `+`/`-` prefixed bounds, and
// `vA - vB` inclusive ranges, and checking them against a host version.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a three-component dotted version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// New creates a new Version.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// String returns the version as "MAJOR.MINOR.PATCH".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare compares two versions.
// Returns -1 if v < other, 0 if equal, 1 if v > other.
//
// Comparison stays hand-rolled rather than going through
// golang.org/x/mod/semver: that package requires a leading "v" plus a
// strict three-component dotted triple, which rejects the partial
// vMAJOR/vMAJOR.MINOR forms this grammar allows.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}
	return 0
}

func (v Version) LessThan(other Version) bool           { return v.Compare(other) < 0 }
func (v Version) LessThanOrEqual(other Version) bool     { return v.Compare(other) <= 0 }
func (v Version) GreaterThan(other Version) bool         { return v.Compare(other) > 0 }
func (v Version) GreaterThanOrEqual(other Version) bool  { return v.Compare(other) >= 0 }
func (v Version) Equal(other Version) bool               { return v.Compare(other) == 0 }

// IsZero returns true if the version is unset (0.0.0).
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0 && v.Patch == 0
}

// Parse parses a bare dotted version like "1.2.3" or "1.2" (no "v" prefix,
// no operators). Missing components default to 0.
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if len(parts) < 1 || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version format: %s", s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major version: %s", parts[0])
	}

	minor := 0
	if len(parts) >= 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil {
			return Version{}, fmt.Errorf("invalid minor version: %s", parts[1])
		}
	}

	patch := 0
	if len(parts) == 3 {
		patch, err = strconv.Atoi(parts[2])
		if err != nil {
			return Version{}, fmt.Errorf("invalid patch version: %s", parts[2])
		}
	}

	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// MustParse parses a version string and panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// parseAtom parses one "[+-]vMAJOR[.MINOR[.PATCH]]" atom, as produced by the
// builder's canonical reassembly of a req constraint's source tokens.
func parseAtom(s string) (prefix byte, v Version, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, Version{}, fmt.Errorf("empty version atom")
	}

	if s[0] == '+' || s[0] == '-' {
		prefix = s[0]
		s = s[1:]
	}

	if len(s) == 0 || s[0] != 'v' {
		return 0, Version{}, fmt.Errorf("version atom must start with 'v': %s", s)
	}
	s = s[1:]

	v, err = Parse(s)
	if err != nil {
		return 0, Version{}, fmt.Errorf("invalid version atom: %w", err)
	}
	return prefix, v, nil
}

// Constraint is a parsed req version constraint: an exact version (isExact,
// no prefix), an "at least" floor (hasLow/low, `+` prefix), an "at most"
// ceiling (hasHigh/high, `-` prefix), or an inclusive range with both
// hasLow and hasHigh set.
type Constraint struct {
	raw string

	hasLow  bool
	hasHigh bool
	low     Version
	high    Version
	exact   Version
	isExact bool
}

// ParseConstraint parses the textual form produced by the builder for a
// `req` version-check directive: a bare "vX.Y.Z" (exact), a "+vX.Y" floor,
// a "-vX.Y" ceiling, or a "vA - vB" inclusive range.
func ParseConstraint(s string) (*Constraint, error) {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, " - "); idx >= 0 {
		lowAtom := s[:idx]
		highAtom := s[idx+3:]

		lowPrefix, low, err := parseAtom(lowAtom)
		if err != nil {
			return nil, err
		}
		if lowPrefix != 0 {
			return nil, fmt.Errorf("range bounds must not carry +/- prefixes: %s", s)
		}

		highPrefix, high, err := parseAtom(highAtom)
		if err != nil {
			return nil, err
		}
		if highPrefix != 0 {
			return nil, fmt.Errorf("range bounds must not carry +/- prefixes: %s", s)
		}

		return &Constraint{raw: s, hasLow: true, hasHigh: true, low: low, high: high}, nil
	}

	prefix, v, err := parseAtom(s)
	if err != nil {
		return nil, err
	}

	switch prefix {
	case '+':
		return &Constraint{raw: s, hasLow: true, low: v}, nil
	case '-':
		return &Constraint{raw: s, hasHigh: true, high: v}, nil
	default:
		return &Constraint{raw: s, isExact: true, exact: v}, nil
	}
}

// MustParseConstraint parses a constraint string and panics on error.
func MustParseConstraint(s string) *Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the constraint's original textual form.
func (c *Constraint) String() string {
	return c.raw
}

// Satisfies reports whether host satisfies the constraint.
func (c *Constraint) Satisfies(host Version) bool {
	if c.isExact {
		return host.Equal(c.exact)
	}
	if c.hasLow && host.LessThan(c.low) {
		return false
	}
	if c.hasHigh && host.GreaterThan(c.high) {
		return false
	}
	return true
}

// VersionHost is the external collaborator a `req vX.Y;` directive checks
// against — normally the interpreter's own build version.
type VersionHost interface {
	HostVersion() Version
}
