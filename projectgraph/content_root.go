package projectgraph

import (
	"errors"
	"fmt"
)

// SourceKind is the bucket a content-root directory belongs to.
type SourceKind string

const (
	SourceKindSource       SourceKind = "source"
	SourceKindTest         SourceKind = "test"
	SourceKindResource     SourceKind = "resource"
	SourceKindTestResource SourceKind = "test-resource"
	SourceKindExcluded     SourceKind = "excluded"
)

// SourceKinds lists every bucket in display order.
var SourceKinds = []SourceKind{
	SourceKindSource,
	SourceKindTest,
	SourceKindResource,
	SourceKindTestResource,
	SourceKindExcluded,
}

// ErrPathAlreadyBucketed is returned when a directory is added to a second
// bucket of the same content root.
var ErrPathAlreadyBucketed = errors.New("path already stored under another source kind")

// ContentRootData is a root directory plus its bucketed sub-directories.
// A path is stored under at most one kind. The graph keeps its own copy:
// values passed to Add or Update and returned by DataOf are detached.
type ContentRootData struct {
	Root  string                  `json:"root"`
	Paths map[SourceKind][]string `json:"paths,omitempty"`
	kinds map[string]SourceKind
}

// NewContentRoot creates an empty content root.
func NewContentRoot(root string) ContentRootData {
	return ContentRootData{
		Root:  root,
		Paths: make(map[SourceKind][]string),
		kinds: make(map[string]SourceKind),
	}
}

// Add stores path under kind. Adding the same path twice under the same kind
// is a no-op; adding it under a different kind fails.
func (c *ContentRootData) Add(kind SourceKind, path string) error {
	if c.kinds == nil {
		c.rebuildIndex()
	}
	if existing, ok := c.kinds[path]; ok {
		if existing == kind {
			return nil
		}
		return fmt.Errorf("%w: %s is %s, cannot add as %s", ErrPathAlreadyBucketed, path, existing, kind)
	}
	c.kinds[path] = kind
	c.Paths[kind] = append(c.Paths[kind], path)
	return nil
}

// KindOf returns the bucket holding path.
func (c ContentRootData) KindOf(path string) (SourceKind, bool) {
	for kind, paths := range c.Paths {
		for _, p := range paths {
			if p == path {
				return kind, true
			}
		}
	}
	return "", false
}

// PathsOf returns the directories stored under kind.
func (c ContentRootData) PathsOf(kind SourceKind) []string {
	return c.Paths[kind]
}

func (c *ContentRootData) rebuildIndex() {
	if c.Paths == nil {
		c.Paths = make(map[SourceKind][]string)
	}
	c.kinds = make(map[string]SourceKind)
	for kind, paths := range c.Paths {
		for _, p := range paths {
			c.kinds[p] = kind
		}
	}
}

func (c ContentRootData) clone() ContentRootData {
	out := NewContentRoot(c.Root)
	for _, kind := range SourceKinds {
		for _, p := range c.Paths[kind] {
			_ = out.Add(kind, p)
		}
	}
	return out
}
