package content

import (
	"sort"

	"github.com/dgallion1/roadmapdocs/internal/roadmap"
	"github.com/dgallion1/roadmapdocs/internal/slug"
	"github.com/dgallion1/roadmapdocs/internal/upstream"
)

// unknownSuffix marks identifiers synthesized without a listing.
const unknownSuffix = "unknown"

// Index maps topic keys to document identifiers.
type Index map[string]string

// BuildIndex maps each markdown entry's topic key to its name. When two
// entries share a key the later one wins.
func BuildIndex(entries []upstream.Entry) Index {
	idx := make(Index)
	for _, e := range entries {
		if !slug.IsDocument(e.Name) {
			continue
		}
		idx[slug.TopicKey(e.Name)] = e.Name
	}
	return idx
}

// SynthesizeIndex builds "<slug>@unknown.md" identifiers for every topic in
// the sections. It keeps the pipeline running when no listing is available;
// the identifiers are not expected to resolve upstream.
func SynthesizeIndex(secs []roadmap.Section) Index {
	idx := make(Index)
	for _, s := range secs {
		for _, n := range s.Nodes {
			key := slug.Make(n.Label)
			idx[key] = key + "@" + unknownSuffix + slug.DocExt
		}
	}
	return idx
}

// Lookup resolves a topic label by exact slug equality.
func (idx Index) Lookup(label string) (string, bool) {
	id, ok := idx[slug.Make(label)]
	return id, ok
}

// Identifiers returns the distinct identifiers in the index, sorted.
func (idx Index) Identifiers() []string {
	seen := make(map[string]bool, len(idx))
	ids := make([]string, 0, len(idx))
	for _, id := range idx {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Identifiers returns the distinct markdown entry names in listing order.
// Entries no topic resolves to are included; they end up in the extras.
func Identifiers(entries []upstream.Entry) []string {
	seen := make(map[string]bool, len(entries))
	var ids []string
	for _, e := range entries {
		if !slug.IsDocument(e.Name) || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		ids = append(ids, e.Name)
	}
	return ids
}

// Associated returns the identifiers that some section topic resolves to.
func (idx Index) Associated(secs []roadmap.Section) map[string]bool {
	used := make(map[string]bool)
	for _, s := range secs {
		for _, n := range s.Nodes {
			if id, ok := idx.Lookup(n.Label); ok {
				used[id] = true
			}
		}
	}
	return used
}
