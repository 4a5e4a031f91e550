package tree

import (
	"fmt"
	"os"
	"path/filepath"
)

// Summary counts what a write produced.
type Summary struct {
	Sections int `json:"sections"`
	Topics   int `json:"topics"`
	Extras   int `json:"extras"`
	Files    int `json:"files"` // Every file written, indexes included.
}

// Write materializes the layout under root. Existing directories are
// reused and files overwritten in place; nothing is deleted.
func (l Layout) Write(root string) (Summary, error) {
	var sum Summary
	if err := os.MkdirAll(root, 0o755); err != nil {
		return sum, fmt.Errorf("create output dir: %w", err)
	}

	for _, d := range l.Sections {
		if err := writeDir(root, d, SectionIndex(d)); err != nil {
			return sum, err
		}
		sum.Sections++
		sum.Topics += len(d.Entries)
		sum.Files += len(d.Entries) + 1
	}

	if l.Extras != nil {
		if err := writeDir(root, *l.Extras, ExtrasIndex(*l.Extras)); err != nil {
			return sum, err
		}
		sum.Extras = len(l.Extras.Entries)
		sum.Files += len(l.Extras.Entries) + 1
	}

	if err := writeFile(filepath.Join(root, ReadmeFile), l.Readme()); err != nil {
		return sum, err
	}
	sum.Files++
	return sum, nil
}

func writeDir(root string, d Dir, index string) error {
	dir := filepath.Join(root, d.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", d.Name, err)
	}
	for _, e := range d.Entries {
		if err := writeFile(filepath.Join(dir, e.File), e.Body); err != nil {
			return err
		}
	}
	return writeFile(filepath.Join(dir, IndexFile), index)
}

func writeFile(path, body string) error {
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
