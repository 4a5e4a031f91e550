package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgallion1/roadmapdocs/internal/content"
	"github.com/dgallion1/roadmapdocs/internal/roadmap"
	"github.com/dgallion1/roadmapdocs/internal/slug"
)

const (
	// ExtrasDir holds documents no section topic resolved to.
	ExtrasDir = "99-extras"
	// IndexFile is the per-directory index.
	IndexFile = "_index.md"
	// ReadmeFile is the top-level index.
	ReadmeFile = "README.md"

	extrasTitle       = "Additional Content"
	extrasDescription = "Topics not associated with a specific section."
)

// Meta describes the roadmap in the top-level index.
type Meta struct {
	Title     string // e.g. "AI Engineer Roadmap"
	SourceURL string // e.g. "https://roadmap.sh/ai-engineer"
}

// Entry is one document file inside a directory.
type Entry struct {
	Label string // Link text
	File  string // File name inside the directory
	Body  string
}

// Dir is one output directory with its index.
type Dir struct {
	Name    string // Directory name, e.g. "01-introduction"
	Label   string
	Entries []Entry // In link order
}

// Layout is the full output tree, computed before anything is written.
type Layout struct {
	Meta     Meta
	Sections []Dir
	Extras   *Dir // Nil when every document was associated.
}

// Plan lays out the output tree. Topics appear in each section's Y/X order;
// a topic gets a file only when it resolves to a fetched document. Fetched
// documents no topic resolves to go to the extras directory, sorted by
// identifier.
func Plan(secs []roadmap.Section, idx content.Index, docs map[string]content.Outcome, meta Meta) Layout {
	layout := Layout{Meta: meta}

	for i, s := range secs {
		label := s.Label
		if label == "" {
			label = fmt.Sprintf("Section %d", i+1)
		}
		dir := Dir{
			Name:  fmt.Sprintf("%02d-%s", i+1, slug.Make(label)),
			Label: label,
		}
		for _, n := range s.Ordered() {
			id, ok := idx.Lookup(n.Label)
			if !ok {
				continue
			}
			doc, ok := docs[id]
			if !ok {
				continue
			}
			dir.Entries = append(dir.Entries, Entry{
				Label: n.Label,
				File:  slug.Make(n.Label) + slug.DocExt,
				Body:  doc.Text(),
			})
		}
		layout.Sections = append(layout.Sections, dir)
	}

	used := idx.Associated(secs)
	var unused []string
	for id := range docs {
		if !used[id] {
			unused = append(unused, id)
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		extras := &Dir{Name: ExtrasDir, Label: extrasTitle}
		for _, id := range unused {
			key := slug.TopicKey(id)
			extras.Entries = append(extras.Entries, Entry{
				Label: key,
				File:  key + slug.DocExt,
				Body:  docs[id].Text(),
			})
		}
		layout.Extras = extras
	}

	return layout
}

// Dirs returns every directory in output order, extras last.
func (l Layout) Dirs() []Dir {
	dirs := append([]Dir(nil), l.Sections...)
	if l.Extras != nil {
		dirs = append(dirs, *l.Extras)
	}
	return dirs
}

// SectionIndex renders a section's _index.md.
func SectionIndex(d Dir) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", d.Label)
	writeLinks(&sb, d, "", "./")
	return sb.String()
}

// ExtrasIndex renders the extras _index.md.
func ExtrasIndex(d Dir) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", d.Label, extrasDescription)
	writeLinks(&sb, d, "", "./")
	return sb.String()
}

// Readme renders the top-level README.md.
func (l Layout) Readme() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", l.Meta.Title)
	if l.Meta.SourceURL != "" {
		display := strings.TrimPrefix(strings.TrimPrefix(l.Meta.SourceURL, "https://"), "http://")
		fmt.Fprintf(&sb, "Content extracted from [%s](%s)\n\n", display, l.Meta.SourceURL)
	}
	sb.WriteString("## Sections\n\n")

	for _, d := range l.Sections {
		fmt.Fprintf(&sb, "### [%s](./%s/)\n\n", d.Label, d.Name)
		writeLinks(&sb, d, "  ", "./"+d.Name+"/")
		sb.WriteString("\n")
	}
	if l.Extras != nil {
		fmt.Fprintf(&sb, "### [%s](./%s/)\n\n", l.Extras.Label, l.Extras.Name)
		writeLinks(&sb, *l.Extras, "  ", "./"+l.Extras.Name+"/")
	}
	return sb.String()
}

func writeLinks(sb *strings.Builder, d Dir, indent, prefix string) {
	for _, e := range d.Entries {
		fmt.Fprintf(sb, "%s- [%s](%s%s)\n", indent, e.Label, prefix, e.File)
	}
}
