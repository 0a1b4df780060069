package base

import (
	"fmt"

	"github.com/LegacyCodeHQ/projectimport/buildmodel"
	"github.com/LegacyCodeHQ/projectimport/projectgraph"
	"github.com/LegacyCodeHQ/projectimport/resolver"
)

// bucketPrecedence lists source kinds from least to most specific. A directory
// reported under several kinds ends up under the last one.
var bucketPrecedence = []projectgraph.SourceKind{
	projectgraph.SourceKindExcluded,
	projectgraph.SourceKindSource,
	projectgraph.SourceKindTest,
	projectgraph.SourceKindResource,
	projectgraph.SourceKindTestResource,
}

type bucketing struct {
	order []string
	kinds map[string]projectgraph.SourceKind
}

func newBucketing() *bucketing {
	return &bucketing{kinds: make(map[string]projectgraph.SourceKind)}
}

func (b *bucketing) offer(kind projectgraph.SourceKind, paths []string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, seen := b.kinds[path]; !seen {
			b.order = append(b.order, path)
		}
		b.kinds[path] = kind
	}
}

func (*Unit) PopulateContentRoots(rc *resolver.Context, module *buildmodel.Module, g *projectgraph.Graph, h projectgraph.Handle) error {
	extendedRoots := make(map[string]buildmodel.ExtendedContentRoot)
	var extendedOrder []string
	if extended, ok := resolver.ModuleModel[*buildmodel.ModuleExtended](rc, module.Path, buildmodel.KindModuleExtended); ok && extended != nil {
		for _, root := range extended.ContentRoots {
			if _, seen := extendedRoots[root.RootDirectory]; !seen {
				extendedOrder = append(extendedOrder, root.RootDirectory)
			}
			extendedRoots[root.RootDirectory] = root
		}
	}

	handled := make(map[string]bool)
	for _, root := range module.ContentRoots {
		extended := extendedRoots[root.RootDirectory]
		handled[root.RootDirectory] = true

		buckets := newBucketing()
		for _, kind := range bucketPrecedence {
			switch kind {
			case projectgraph.SourceKindExcluded:
				buckets.offer(kind, root.ExcludeDirectories)
			case projectgraph.SourceKindSource:
				buckets.offer(kind, root.SourceDirectories)
				buckets.offer(kind, root.GeneratedSourceDirectories)
			case projectgraph.SourceKindTest:
				buckets.offer(kind, root.TestDirectories)
			case projectgraph.SourceKindResource:
				buckets.offer(kind, extended.ResourceDirectories)
			case projectgraph.SourceKindTestResource:
				buckets.offer(kind, extended.TestResourceDirectories)
			}
		}

		if err := addContentRoot(g, h, root.RootDirectory, buckets); err != nil {
			return fmt.Errorf("module %s: %w", module.Name, err)
		}
	}

	for _, dir := range extendedOrder {
		if handled[dir] {
			continue
		}
		extended := extendedRoots[dir]
		buckets := newBucketing()
		buckets.offer(projectgraph.SourceKindResource, extended.ResourceDirectories)
		buckets.offer(projectgraph.SourceKindTestResource, extended.TestResourceDirectories)
		if err := addContentRoot(g, h, dir, buckets); err != nil {
			return fmt.Errorf("module %s: %w", module.Name, err)
		}
	}
	return nil
}

func addContentRoot(g *projectgraph.Graph, h projectgraph.Handle, dir string, buckets *bucketing) error {
	root := projectgraph.NewContentRoot(dir)
	for _, path := range buckets.order {
		if err := root.Add(buckets.kinds[path], path); err != nil {
			return err
		}
	}
	g.Add(h, root)
	return nil
}
