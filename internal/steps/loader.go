package steps

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader discovers and parses step documents from a single directory.
// Every call re-scans the directory — step sets are small and static
// during a session, so no cache is kept.
type Loader struct {
	dir string
}

// NewLoader creates a Loader reading from the given directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadAll scans the step directory and returns all parsed steps sorted
// ascending by id. Markdown documents claim their id first; a markup
// document whose id is already claimed is discarded entirely. Documents
// without a usable id are skipped with a warning. A missing directory
// yields an empty list, not an error — "no steps configured" is a normal
// state the caller must render.
func (l *Loader) LoadAll() ([]Step, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading steps directory %s: %w", l.dir, err)
	}

	var result []Step
	claimed := map[int]bool{}

	// Markdown pass — these documents take precedence per id.
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".md") {
			continue
		}
		step, ok := l.parseFile(entry.Name(), claimed, parseMarkdown)
		if ok {
			result = append(result, step)
			claimed[step.ID] = true
		}
	}

	// Markup pass — only ids not already claimed by a markdown document.
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !(strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm")) {
			continue
		}
		step, ok := l.parseFile(entry.Name(), claimed, parseMarkup)
		if ok {
			result = append(result, step)
			claimed[step.ID] = true
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// parseFile reads and parses one document, reporting whether it produced
// a usable step. Failures are logged and isolated per document.
func (l *Loader) parseFile(name string, claimed map[int]bool, parse func(int, string) Step) (Step, bool) {
	id := extractStepID(name)
	if id <= 0 {
		log.Printf("WARNING: steps: skipping %s: no step id in filename", name)
		return Step{}, false
	}
	if claimed[id] {
		return Step{}, false
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		log.Printf("WARNING: steps: skipping %s: %v", name, err)
		return Step{}, false
	}
	return parse(id, string(data)), true
}

// Get returns the step with the given id, or nil when no such step exists.
func (l *Loader) Get(id int) (*Step, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// StepIDs returns the ascending ids of all configured steps.
func (l *Loader) StepIDs() ([]int, error) {
	all, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	return ids, nil
}
