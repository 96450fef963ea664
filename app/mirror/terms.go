package mirror

import (
	"fmt"
	"log/slog"
	"strings"

	"cms-mirror/app/database"
	"cms-mirror/app/remote"
)

// TermResolver maps remote taxonomy terms onto local term identifiers,
// creating local terms on first sight. Idempotent: matching is by normalized
// slug within a kind.
type TermResolver struct {
	terms database.TermRepository
}

func NewTermResolver(terms database.TermRepository) *TermResolver {
	return &TermResolver{terms: terms}
}

// Resolve returns local term references grouped by kind, deduplicated by
// identifier. Unrecognized kinds and nameless terms are dropped; a term whose
// creation fails is skipped with a warning, never failing the caller.
func (tr *TermResolver) Resolve(remoteTerms []remote.Term) (map[Kind][]ResolvedTerm, []string) {
	resolved := make(map[Kind][]ResolvedTerm)
	seen := make(map[Kind]map[int64]bool)
	var warnings []string

	for _, kind := range Kinds {
		resolved[kind] = []ResolvedTerm{}
		seen[kind] = make(map[int64]bool)
	}

	for _, rt := range remoteTerms {
		kind, ok := KindFromTaxonomy(rt.Taxonomy)
		if !ok {
			slog.Debug("Dropping term of unrecognized taxonomy", "taxonomy", rt.Taxonomy, "name", rt.Name)
			continue
		}

		name := strings.TrimSpace(rt.Name)
		if name == "" {
			continue
		}

		slug := Slugify(rt.Slug)
		if slug == "" {
			slug = Slugify(name)
		}
		if slug == "" {
			continue
		}

		id, err := tr.resolveOne(kind, name, slug)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to resolve term '%s': %v", name, err))
			slog.Warn("Term resolution failed, skipping term", "kind", string(kind), "name", name, "error", err)
			continue
		}

		if !seen[kind][id] {
			seen[kind][id] = true
			resolved[kind] = append(resolved[kind], ResolvedTerm{ID: id, Name: name})
		}
	}

	return resolved, warnings
}

func (tr *TermResolver) resolveOne(kind Kind, name, slug string) (int64, error) {
	term, err := tr.terms.GetTermBySlug(string(kind), slug)
	if err != nil {
		return 0, err
	}
	if term != nil {
		return term.ID, nil
	}

	return tr.terms.CreateTerm(string(kind), name, slug)
}

// TermIDs extracts the identifier list for one kind.
func TermIDs(resolved map[Kind][]ResolvedTerm, kind Kind) []int64 {
	ids := make([]int64, 0, len(resolved[kind]))
	for _, t := range resolved[kind] {
		ids = append(ids, t.ID)
	}
	return ids
}

// TermNames extracts the name list for one kind.
func TermNames(resolved map[Kind][]ResolvedTerm, kind Kind) []string {
	names := make([]string, 0, len(resolved[kind]))
	for _, t := range resolved[kind] {
		names = append(names, t.Name)
	}
	return names
}
