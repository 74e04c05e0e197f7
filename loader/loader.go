// Package loader reads ledger journal files, optionally following include
// directives, and merges them into a single AST.
//
// Includes are resolved relative to the directory of the including file and
// a file included more than once is only parsed the first time.
//
//	ldr := loader.New(loader.WithFollowIncludes())
//	tree, err := ldr.Load(ctx, "main.ledger")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robinvdvleuten/ledgercalc/ast"
	"github.com/robinvdvleuten/ledgercalc/parser"
	"github.com/robinvdvleuten/ledgercalc/telemetry"
)

// Loader handles loading and parsing of journal files.
type Loader struct {
	// FollowIncludes determines whether included files are loaded and merged.
	// When false, include directives stay in ast.Includes.
	FollowIncludes bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFollowIncludes configures the loader to recursively load and merge all
// included files.
func WithFollowIncludes() Option {
	return func(l *Loader) {
		l.FollowIncludes = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses a journal file with optional recursive include resolution.
func (l *Loader) Load(ctx context.Context, filename string) (*ast.AST, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("load %s", filepath.Base(filename)))
	defer timer.End()

	if !l.FollowIncludes {
		return parseFile(ctx, filename)
	}

	state := &loaderState{visited: make(map[string]bool)}
	tree, err := state.loadRecursive(ctx, filename)
	if err != nil {
		return nil, err
	}

	ast.SortDirectives(tree)
	return tree, nil
}

// LoadBytes parses journal source that was already read, following includes
// relative to filename when configured.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*ast.AST, error) {
	tree, err := parser.ParseBytesWithFilename(ctx, filename, data)
	if err != nil {
		return nil, err
	}
	if !l.FollowIncludes || len(tree.Includes) == 0 {
		return tree, nil
	}

	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}
	state := &loaderState{visited: map[string]bool{absPath: true}}
	merged, err := state.loadIncludes(ctx, absPath, tree)
	if err != nil {
		return nil, err
	}
	ast.SortDirectives(merged)
	return merged, nil
}

func parseFile(ctx context.Context, filename string) (*ast.AST, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return parser.ParseBytesWithFilename(ctx, filename, data)
}

// loaderState tracks state during recursive loading.
type loaderState struct {
	visited map[string]bool // Absolute paths of files already loaded
}

func (s *loaderState) loadRecursive(ctx context.Context, filename string) (*ast.AST, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", filename, err)
	}

	if s.visited[absPath] {
		return &ast.AST{}, nil
	}
	s.visited[absPath] = true

	tree, err := parseFile(ctx, filename)
	if err != nil {
		return nil, err
	}

	return s.loadIncludes(ctx, absPath, tree)
}

func (s *loaderState) loadIncludes(ctx context.Context, absPath string, tree *ast.AST) (*ast.AST, error) {
	if len(tree.Includes) == 0 {
		return tree, nil
	}

	baseDir := filepath.Dir(absPath)
	included := make([]*ast.AST, 0, len(tree.Includes))

	for _, inc := range tree.Includes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		includePath := inc.Filename
		if !filepath.IsAbs(includePath) {
			includePath = filepath.Join(baseDir, includePath)
		}

		includedTree, err := s.loadRecursive(ctx, includePath)
		if err != nil {
			return nil, fmt.Errorf("in file %s: %w", absPath, err)
		}
		included = append(included, includedTree)
	}

	return mergeASTs(tree, included...), nil
}

// mergeASTs combines a main AST with its included ASTs.
func mergeASTs(main *ast.AST, included ...*ast.AST) *ast.AST {
	result := &ast.AST{
		Directives:  append([]ast.Directive(nil), main.Directives...),
		Accounts:    append([]*ast.AccountDecl(nil), main.Accounts...),
		Commodities: append([]*ast.CommodityDecl(nil), main.Commodities...),
	}

	for _, inc := range included {
		result.Directives = append(result.Directives, inc.Directives...)
		result.Accounts = append(result.Accounts, inc.Accounts...)
		result.Commodities = append(result.Commodities, inc.Commodities...)
	}

	return result
}
