package mirror

import (
	"errors"
)

// ErrNoEndpoint aborts a run before any fetch when the source has no
// configured endpoint.
var ErrNoEndpoint = errors.New("source has no endpoint URL configured")

// Kind is a recognized taxonomy classification scheme. Remote terms of any
// other scheme are dropped.
type Kind string

const (
	KindCategory Kind = "category"
	KindTag      Kind = "tag"
)

// Kinds lists the recognized kinds in a stable order.
var Kinds = []Kind{KindCategory, KindTag}

// KindFromTaxonomy maps a remote taxonomy identifier to a local kind.
func KindFromTaxonomy(taxonomy string) (Kind, bool) {
	switch taxonomy {
	case "category":
		return KindCategory, true
	case "post_tag":
		return KindTag, true
	default:
		return "", false
	}
}

// ResolvedTerm is a local term reference produced by term resolution.
type ResolvedTerm struct {
	ID   int64
	Name string
}

// Outcome tags the result of processing one remote item.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
)

// ImportResult captures the decision made for one remote item.
type ImportResult struct {
	Outcome   Outcome
	PostID    int64
	Title     string
	Terms     map[Kind][]ResolvedTerm
	ImageURLs []string
	Warnings  []string
}

// Report summarizes one import run.
type Report struct {
	Total    int      `json:"total"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings"`
}
