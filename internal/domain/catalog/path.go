package catalog

import (
	"strings"

	"github.com/catalog/backend/internal/domain/shared"
)

// PathSeparator delimits segments of a materialized category path
const PathSeparator = "."

// TreePath is a materialized path encoding a category's full ancestor
// chain, e.g. "hwroot.10.42". Each segment matches [A-Za-z0-9_]+.
// Prefix-based operations let ancestor/descendant queries run without
// recursive joins.
type TreePath string

// NewRootPath creates a single-segment path for a partition root
func NewRootPath(segment string) (TreePath, error) {
	if err := validatePathSegment(segment); err != nil {
		return "", err
	}
	return TreePath(segment), nil
}

// ParseTreePath validates a stored path string
func ParseTreePath(raw string) (TreePath, error) {
	if raw == "" {
		return "", shared.NewDomainError("INVALID_PATH", "Category path cannot be empty")
	}
	for _, segment := range strings.Split(raw, PathSeparator) {
		if err := validatePathSegment(segment); err != nil {
			return "", err
		}
	}
	return TreePath(raw), nil
}

// Child returns the path of a node placed directly under this one
func (p TreePath) Child(segment string) (TreePath, error) {
	if err := validatePathSegment(segment); err != nil {
		return "", err
	}
	return TreePath(string(p) + PathSeparator + segment), nil
}

// IsAncestorOf reports whether p is a strict ancestor of other.
// The match is on segment boundaries so "n1" is not an ancestor of "n10".
func (p TreePath) IsAncestorOf(other TreePath) bool {
	return strings.HasPrefix(string(other), string(p)+PathSeparator)
}

// Parent returns the path without its last segment, or the empty path
// for a single-segment root.
func (p TreePath) Parent() TreePath {
	idx := strings.LastIndex(string(p), PathSeparator)
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Segments returns the path split into its segments
func (p TreePath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), PathSeparator)
}

// Depth returns the number of segments
func (p TreePath) Depth() int {
	return len(p.Segments())
}

// Leaf returns the last segment
func (p TreePath) Leaf() string {
	segments := p.Segments()
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// String returns the raw path
func (p TreePath) String() string {
	return string(p)
}

func validatePathSegment(segment string) error {
	if segment == "" {
		return shared.NewDomainError("INVALID_PATH", "Path segment cannot be empty")
	}
	for _, r := range segment {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
			return shared.NewDomainError("INVALID_PATH", "Path segment can only contain letters, digits, and underscores")
		}
	}
	return nil
}
