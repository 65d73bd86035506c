// Package skills persists and loads the skill documents injected into the
// system prompt.
package skills

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store manages the on-disk skill directory. Documents are read once per
// session via Load and written by Save; nothing here deletes or edits them.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Slug derives the filesystem-safe identifier for a skill name: spaces
// become underscores and the result is lower-cased.
func Slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// Path returns the document path for a skill name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, Slug(name)+".md")
}

// Load reads every skill document and renders the prompt block spliced into
// the system prompt. It returns an empty string when no skills exist.
func (s *Store) Load() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*.md"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)

	var sb strings.Builder
	sb.WriteString("\n\n--- AVAILABLE SKILLS ---\n")
	for _, path := range matches {
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read skill %s: %w", path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sb.WriteString(fmt.Sprintf("\n<skill name='%s'>\n%s\n</skill>\n", stem, string(content)))
	}
	return sb.String(), nil
}

// Save writes a skill document using the fixed template, overwriting any
// existing document with the same slug.
func (s *Store) Save(name, description, instructions string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("skill name is required")
	}
	content := fmt.Sprintf("# %s\n\n## Description\n%s\n\n## Instructions\n%s\n", name, description, instructions)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), []byte(content), 0o644)
}
