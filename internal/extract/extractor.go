// Package extract statically extracts process-flow graphs from annotated
// Python source trees. Functions tagged with step decorators become flow
// nodes; calls between tagged functions become edges. No analyzed code is
// ever executed.
package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ziadkadry99/flowdoc/internal/pyast"
)

// Options configures an Extractor.
type Options struct {
	// SrcRoot is the root for deriving dotted module paths. Defaults to
	// the common parent handed in by the caller; must be set for
	// meaningful cross-module resolution.
	SrcRoot string
	// MaxConcurrency bounds per-file parallelism in each pass. Values
	// below 1 mean sequential.
	MaxConcurrency int
	// Progress, if set, is called after each processed file. Total counts
	// every file twice, once per pass.
	Progress func(done, total int, path string)
}

// Extractor runs the two-pass extraction protocol over a file set.
type Extractor struct {
	opts Options
}

// New returns an Extractor with the given options.
func New(opts Options) *Extractor {
	if opts.MaxConcurrency < 1 {
		opts.MaxConcurrency = 1
	}
	return &Extractor{opts: opts}
}

// Result carries the assembled flows, in input file order, plus all
// diagnostics emitted along the way.
type Result struct {
	Flows       []Flow
	Diagnostics []Diagnostic
}

// parsedFile is the per-file outcome of pass 1.
type parsedFile struct {
	path   string
	module string
	file   *pyast.File
	steps  []stepDef
	diags  []Diagnostic
	err    error
}

// Extract runs both passes over the given ordered file list. Pass 1
// parses every file and registers its steps; pass 2 re-walks each parsed
// tree resolving calls against the union of local and registry-known
// steps. Pass 2 does not start until pass 1 has finished for all files: a
// call in an early file may target a step only discovered in a later one.
//
// A file that fails to parse is skipped with a warning diagnostic, except
// when it is the only input, in which case the failure is returned. An
// input with no flows yields an empty (non-nil) result; callers decide
// how to surface that.
func (e *Extractor) Extract(ctx context.Context, files []string) (*Result, error) {
	result := &Result{}
	total := len(files) * 2
	var done int

	// Pass 1: parse and collect, fanned out per file. Results land in a
	// fixed slot per file so merge order below never depends on
	// scheduling.
	parsed := make([]parsedFile, len(files))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.opts.MaxConcurrency)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			parsed[i] = e.parseOne(ctx, path)
		}(i, path)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		for i := range parsed {
			if parsed[i].file != nil {
				parsed[i].file.Close()
			}
		}
	}()

	// Merge in input order: registration order must be fixed so that the
	// registry's suffix fallback resolves the same way on every run.
	registry := NewRegistry()
	for i := range parsed {
		p := &parsed[i]
		done++
		e.reportProgress(done, total, p.path)

		if p.err != nil {
			if len(files) == 1 {
				return nil, p.err
			}
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("skipping %s: %v", p.path, p.err),
				File:     p.path,
			})
			continue
		}

		result.Diagnostics = append(result.Diagnostics, p.diags...)
		for _, def := range p.steps {
			registry.Register(p.module, def.step)
		}
	}

	// Pass 2: assemble flows per file against the completed registry.
	// The registry is read-only from here on, so per-file work is again
	// independent.
	type assembled struct {
		flows []Flow
		diags []Diagnostic
	}
	results := make([]assembled, len(parsed))

	for i := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &parsed[i]
		if p.err != nil {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *parsedFile) {
			defer wg.Done()
			defer func() { <-sem }()

			local := stepNames(p.steps)
			isKnown := func(name string) bool {
				if local[name] {
					return true
				}
				_, ok := registry.Resolve(p.module, name)
				return ok
			}
			flows, diags := assembleFlows(p.file, p.steps, isKnown)
			results[i] = assembled{flows: flows, diags: diags}
		}(i, p)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		done++
		e.reportProgress(done, total, parsed[i].path)
		result.Flows = append(result.Flows, results[i].flows...)
		result.Diagnostics = append(result.Diagnostics, results[i].diags...)
	}

	return result, nil
}

// parseOne reads and parses a single file and collects its steps.
func (e *Extractor) parseOne(ctx context.Context, path string) parsedFile {
	p := parsedFile{path: path, module: moduleFromPath(path, e.opts.SrcRoot)}

	source, err := os.ReadFile(path)
	if err != nil {
		p.err = fmt.Errorf("reading %s: %w", path, err)
		return p
	}

	file, err := pyast.Parse(ctx, source, path)
	if err != nil {
		p.err = err
		return p
	}

	p.file = file
	p.steps, p.diags = collectSteps(file)
	return p
}

func (e *Extractor) reportProgress(done, total int, path string) {
	if e.opts.Progress != nil {
		e.opts.Progress(done, total, path)
	}
}

// moduleFromPath converts a file path to a dotted module path: the path
// relative to the source root, with the .py suffix stripped, a trailing
// __init__ segment dropped, and the remaining components joined by dots.
// A path outside the root falls back to the path itself.
func moduleFromPath(path, srcRoot string) string {
	rel := path
	if srcRoot != "" {
		if r, err := filepath.Rel(srcRoot, path); err == nil && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}

	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "/")
	rel = strings.TrimSuffix(rel, ".py")

	parts := strings.Split(rel, "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, ".")
}
