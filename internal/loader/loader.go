// Package loader performs the bulk directory load: discovering script
// files under a mod's `common/` tree, parsing them (optionally in
// parallel), and merging the results into a model.GameMod.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/abrenneke/stelpatch-sub002/internal/intern"
	"github.com/abrenneke/stelpatch-sub002/internal/model"
	"github.com/abrenneke/stelpatch-sub002/internal/script"
)

// Mode selects serial or parallel parsing of the discovered files.
type Mode int

const (
	Serial Mode = iota
	Parallel
)

// Options configures a LoadDirectory call. Both fields are optional.
type Options struct {
	Workers int
	Logger  *logrus.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return 4
}

func (o Options) logger() *logrus.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logrus.StandardLogger()
}

// LoadResult is a fully merged GameMod plus any per-file errors, keyed by
// path. A directory load never fails wholesale: a file that fails to read
// or parse is recorded here and skipped, not propagated as a fatal error.
type LoadResult struct {
	GameMod *model.GameMod
	Errors  map[string]error
}

type parsedFile struct {
	path      string
	namespace string
	filename  string
	ast       *script.Module
	err       error
}

// LoadDirectory recursively collects every `.txt` file under
// `<root>/common/`, excluding files directly inside `common/` itself,
// parses them, and merges the results into a GameMod. Modules are always
// inserted into their namespaces in sorted-path order — regardless of
// which order parsing itself completed in — so the merged result is
// deterministic.
func LoadDirectory(ctx context.Context, root string, mode Mode, def model.ModDescriptor, in *intern.Interner, opts Options) (*LoadResult, error) {
	commonDir := filepath.Join(root, "common")
	paths, err := discoverScriptFiles(commonDir)
	if err != nil {
		return nil, fmt.Errorf("discovering script files under %s: %w", commonDir, err)
	}
	sort.Strings(paths)

	log := opts.logger()
	log.WithFields(logrus.Fields{
		"root": root, "files": len(paths), "mode": mode,
	}).Debug("loader: starting directory load")

	var parsed []parsedFile
	switch mode {
	case Serial:
		parsed = parseSerial(paths, commonDir)
	default:
		parsed, err = parseParallel(ctx, paths, commonDir, opts)
		if err != nil {
			return nil, err
		}
	}

	gm := model.NewGameMod(def)
	errs := make(map[string]error)
	for _, pf := range parsed {
		if pf.err != nil {
			errs[pf.path] = pf.err
			log.WithFields(logrus.Fields{"path": pf.path, "error": pf.err}).
				Warn("loader: failed to parse module")
			continue
		}
		mod := model.BuildModule(pf.namespace, pf.filename, pf.ast, in)
		gm.Push(mod)
	}

	log.WithFields(logrus.Fields{
		"namespaces": len(gm.Namespaces()), "errors": len(errs),
	}).Debug("loader: directory load complete")

	return &LoadResult{GameMod: gm, Errors: errs}, nil
}

// discoverScriptFiles globs `**/*.txt` under commonDir and drops anything
// matching directly (no subdirectory component), since files sitting
// right inside `common/` are typically readmes/defaults rather than
// namespace data.
func discoverScriptFiles(commonDir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(commonDir), "**/*.txt")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, rel := range matches {
		if !strings.Contains(rel, "/") {
			continue
		}
		out = append(out, filepath.Join(commonDir, rel))
	}
	return out, nil
}

func parseSerial(paths []string, commonDir string) []parsedFile {
	out := make([]parsedFile, 0, len(paths))
	for _, path := range paths {
		out = append(out, parseFile(path, commonDir))
	}
	return out
}

// parseParallel parses each path with a fixed worker budget (bounded by
// opts.workers via a semaphore, matching the "bound in-flight tasks to
// the configured worker count" backpressure rule) and honors a
// cooperative cancellation check once per file.
func parseParallel(ctx context.Context, paths []string, commonDir string, opts Options) ([]parsedFile, error) {
	results := make([]parsedFile, len(paths))
	sem := semaphore.NewWeighted(int64(opts.workers()))
	g, gctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path
		if err := sem.Acquire(gctx, 1); err != nil {
			return nil, err
		}
		g.Go(func() error {
			defer sem.Release(1)
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = parseFile(path, commonDir)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseFile(path, commonDir string) parsedFile {
	namespace, filename := namespaceAndFilename(path, commonDir)
	src, err := os.ReadFile(path)
	if err != nil {
		return parsedFile{path: path, namespace: namespace, filename: filename, err: fmt.Errorf("reading %s: %w", path, err)}
	}
	ast, errs := script.ParseModule(string(src))
	if len(errs) > 0 {
		return parsedFile{path: path, namespace: namespace, filename: filename, err: errs[0]}
	}
	return parsedFile{path: path, namespace: namespace, filename: filename, ast: ast}
}

// namespaceAndFilename extracts the `common/<namespace>` path and bare
// filename from a path rooted at commonDir.
func namespaceAndFilename(path, commonDir string) (namespace, filename string) {
	rel, _ := filepath.Rel(commonDir, path)
	rel = filepath.ToSlash(rel)
	dir := "common"
	if idx := strings.LastIndex(rel, "/"); idx >= 0 {
		dir = "common/" + rel[:idx]
	}
	return dir, filepath.Base(rel)
}
