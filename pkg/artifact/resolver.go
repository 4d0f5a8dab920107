package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-policyassist-be/internal/pkg/logger"
)

// ErrNotFound is returned when every fallback is exhausted. Callers report
// it to the user instead of treating it as a crash.
var ErrNotFound = errors.New("artifact not found")

// Artifact is a discovered file. It is ephemeral: located on demand, never
// stored.
type Artifact struct {
	Path    string
	Name    string
	ModTime time.Time
}

// Resolver locates files produced by earlier tool invocations. Producers
// and consumers agree only loosely on filenames, so resolution trades
// strict correctness for availability; the result is a best-effort match.
type Resolver struct {
	logger logger.ILogger
}

func NewResolver(log logger.ILogger) *Resolver {
	return &Resolver{logger: log}
}

// Resolve finds targetFilename starting from the expected location.
// Resolution order, first match wins:
//  1. baseFolder/targetFilename if it exists as a regular file.
//  2. Any file under searchRoot whose name equals targetFilename exactly;
//     matches inside baseFolder's subtree win over outside ones, then the
//     newest modification time, then the lexicographically smaller path.
//  3. The newest file under searchRoot carrying targetFilename's extension.
//  4. ErrNotFound.
func (r *Resolver) Resolve(baseFolder, targetFilename, searchRoot string) (*Artifact, error) {
	exact := filepath.Join(baseFolder, targetFilename)
	if info, err := os.Stat(exact); err == nil && info.Mode().IsRegular() {
		return &Artifact{Path: exact, Name: targetFilename, ModTime: info.ModTime()}, nil
	}

	matches, err := r.collect(searchRoot, func(name string) bool {
		return name == targetFilename
	})
	if err != nil {
		return nil, err
	}

	if len(matches) > 0 {
		best := r.pick(matches, baseFolder)
		r.logger.Info("artifact", "resolved by name search", map[string]interface{}{
			"target": targetFilename,
			"path":   best.Path,
		})
		return best, nil
	}

	// Last resort: newest file with the expected extension anywhere under
	// the search root.
	ext := filepath.Ext(targetFilename)
	if ext != "" {
		byExt, err := r.collect(searchRoot, func(name string) bool {
			return filepath.Ext(name) == ext
		})
		if err != nil {
			return nil, err
		}
		if len(byExt) > 0 {
			best := newest(byExt)
			r.logger.Warn("artifact", "resolved by extension fallback", map[string]interface{}{
				"target": targetFilename,
				"path":   best.Path,
			})
			return best, nil
		}
	}

	return nil, fmt.Errorf("%w: %s under %s", ErrNotFound, targetFilename, searchRoot)
}

func (r *Resolver) collect(root string, match func(name string) bool) ([]*Artifact, error) {
	var found []*Artifact
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !match(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		found = append(found, &Artifact{Path: path, Name: d.Name(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return found, nil
}

// pick prefers matches inside the baseFolder subtree regardless of age,
// then falls back to recency.
func (r *Resolver) pick(matches []*Artifact, baseFolder string) *Artifact {
	var inBase []*Artifact
	prefix := baseFolder + string(filepath.Separator)
	for _, m := range matches {
		if strings.HasPrefix(m.Path, prefix) {
			inBase = append(inBase, m)
		}
	}
	if len(inBase) > 0 {
		return newest(inBase)
	}
	return newest(matches)
}

// newest returns the most recently modified artifact; identical timestamps
// resolve to the lexicographically smaller path so the choice is
// deterministic.
func newest(matches []*Artifact) *Artifact {
	best := matches[0]
	for _, m := range matches[1:] {
		if m.ModTime.After(best.ModTime) {
			best = m
			continue
		}
		if m.ModTime.Equal(best.ModTime) && m.Path < best.Path {
			best = m
		}
	}
	return best
}
