package updater

import (
	"fmt"
	"strconv"
	"strings"
)

// Semver is a release version. Build metadata is dropped.
type Semver struct {
	Major int
	Minor int
	Patch int
	Pre   string // "rc.1" in "1.2.0-rc.1"
}

// ParseSemver parses "1.2.3", "v1.2.3" or "1.2.3-rc.1".
func ParseSemver(s string) (Semver, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexByte(s, '+'); i >= 0 {
		s = s[:i]
	}
	var v Semver
	if i := strings.IndexByte(s, '-'); i >= 0 {
		v.Pre = s[i+1:]
		s = s[:i]
		if v.Pre == "" {
			return Semver{}, fmt.Errorf("invalid semver: empty pre-release")
		}
	}

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Semver{}, fmt.Errorf("invalid semver: %q", s)
	}
	nums := [3]*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Semver{}, fmt.Errorf("invalid semver component %q", p)
		}
		*nums[i] = n
	}
	return v, nil
}

func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	return s
}

// LessThan returns true if v < other. A pre-release sorts before its release;
// two pre-releases compare as strings.
func (v Semver) LessThan(other Semver) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	if v.Patch != other.Patch {
		return v.Patch < other.Patch
	}
	switch {
	case v.Pre == other.Pre:
		return false
	case v.Pre == "":
		return false
	case other.Pre == "":
		return true
	}
	return v.Pre < other.Pre
}
