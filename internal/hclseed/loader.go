package hclseed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annaglova/breedhub-sub002/internal/ctxlog"
	"github.com/annaglova/breedhub-sub002/internal/model"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Seed is the translated content of one or more seed files.
type Seed struct {
	Nodes     []*model.ConfigNode
	Opposites [][2]string
}

// Loader reads seed files.
type Loader struct{}

// NewLoader creates a new HCL seed loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths, in lexical order, and
// translates the blocks into nodes and opposite pairs. A node ID declared
// twice, in the same or in different files, is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Seed, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Seed loader started", "pathCount", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered seed files", "count", len(files))

	seed := &Seed{}
	declared := make(map[string]hcl.Range)
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse seed file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode seed file %s: %w", file, diags)
		}

		for _, block := range root.Nodes {
			if prev, dup := declared[block.ID]; dup {
				return nil, duplicateNode(block, prev)
			}
			declared[block.ID] = block.DefRange

			n, err := l.translateNode(ctx, block)
			if err != nil {
				return nil, err
			}
			seed.Nodes = append(seed.Nodes, n)
		}
		for _, opp := range root.Opposites {
			if opp.A == opp.B {
				return nil, fmt.Errorf("%s: property '%s' cannot be its own opposite", opp.DefRange, opp.A)
			}
			seed.Opposites = append(seed.Opposites, [2]string{opp.A, opp.B})
		}
	}

	logger.Debug("Seed loading complete", "nodes", len(seed.Nodes), "opposites", len(seed.Opposites))
	return seed, nil
}

func duplicateNode(block *nodeBlock, prev hcl.Range) error {
	diags := hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Duplicate node",
		Detail:   fmt.Sprintf("Node %q was already declared at %s.", block.ID, prev),
		Subject:  block.DefRange.Ptr(),
	}}
	return diags
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // A configured path that does not exist is not an error.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
