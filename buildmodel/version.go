package buildmodel

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a build tool protocol version.
type Version struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

var (
	// MinimumSupportedVersion is the oldest tool version an import can talk to.
	MinimumSupportedVersion = Version{Major: 1, Minor: 2, Raw: "1.2"}
	// BulkActionVersion is the first version able to fetch every model in one action.
	BulkActionVersion = Version{Major: 1, Minor: 8, Raw: "1.8"}
	// InitScriptDSLVersion selects the init script template that uses the initscript block.
	InitScriptDSLVersion = Version{Major: 4, Minor: 0, Raw: "4.0"}
)

// ParseVersion parses versions such as "7.4", "7.4.2" or "8.0-rc-1".
func ParseVersion(raw string) (Version, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Version{}, fmt.Errorf("empty version")
	}

	core := trimmed
	if i := strings.IndexAny(core, "-+ "); i >= 0 {
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid version %q", raw)
	}

	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid version %q", raw)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2], Raw: trimmed}, nil
}

// Compare returns -1, 0 or 1 comparing v with other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

// AtLeast reports whether v is the same as or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

func (v Version) String() string {
	if v.Raw != "" {
		return v.Raw
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
