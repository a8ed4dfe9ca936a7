package update

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a dotted sequence of non-negative integers such as 1.2 or
// 1.2.0. Missing trailing components compare as zero.
type Version struct {
	Parts []int
	Raw   string
}

// ParseVersion parses a dotted version string.
// Accepts versions with or without 'v' prefix (e.g., "1.2.3" or "v1.2").
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, fmt.Errorf("%w: empty version string", ErrInvalidVersion)
	}
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")

	fields := strings.Split(trimmed, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		if f == "" || strings.TrimLeft(f, "0123456789") != "" {
			return Version{}, fmt.Errorf("%w: %s", ErrInvalidVersion, s)
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %s", ErrInvalidVersion, s)
		}
		parts[i] = n
	}

	return Version{Parts: parts, Raw: trimmed}, nil
}

// String returns the version without a 'v' prefix, as written.
func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	strs := make([]string, len(v.Parts))
	for i, p := range v.Parts {
		strs[i] = strconv.Itoa(p)
	}
	return strings.Join(strs, ".")
}

// Compare compares two versions component-wise.
// Returns:
//
//	-1 if v < other
//	 0 if v == other
//	 1 if v > other
func (v Version) Compare(other Version) int {
	n := max(len(v.Parts), len(other.Parts))
	for i := 0; i < n; i++ {
		if c := compareInt(partAt(v.Parts, i), partAt(other.Parts, i)); c != 0 {
			return c
		}
	}
	return 0
}

// LessThan returns true if v < other.
func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

// GreaterThan returns true if v > other.
func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equal returns true if v == other.
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// CompareVersions parses and compares two version strings.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

func partAt(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

func compareInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
