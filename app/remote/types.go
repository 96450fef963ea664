package remote

// Wire types for the remote CMS REST listing. Related taxonomy terms and
// featured media travel inline when the listing is requested with _embed.

type Rendered struct {
	Rendered string `json:"rendered"`
}

type Post struct {
	ID            int64    `json:"id"`
	GUID          Rendered `json:"guid"`
	Title         Rendered `json:"title"`
	Content       Rendered `json:"content"`
	Excerpt       Rendered `json:"excerpt"`
	Slug          string   `json:"slug"`
	Status        string   `json:"status"`
	Date          string   `json:"date"`
	DateGMT       string   `json:"date_gmt"`
	FeaturedMedia int64    `json:"featured_media"`
	Embedded      *Embedded `json:"_embedded,omitempty"`
	Links         Links     `json:"_links"`
}

type Embedded struct {
	Terms         [][]Term `json:"wp:term"`
	FeaturedMedia []Media  `json:"wp:featuredmedia"`
}

type Term struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

type Links struct {
	FeaturedMedia []Link `json:"wp:featuredmedia"`
}

type Link struct {
	Href string `json:"href"`
}

// EmbeddedTerms flattens the per-taxonomy term groups into a single list.
func (p *Post) EmbeddedTerms() []Term {
	if p.Embedded == nil {
		return nil
	}

	var terms []Term
	for _, group := range p.Embedded.Terms {
		terms = append(terms, group...)
	}
	return terms
}

// EmbeddedMediaURL returns the featured image URL inlined by _embed, if any.
func (p *Post) EmbeddedMediaURL() string {
	if p.Embedded == nil || len(p.Embedded.FeaturedMedia) == 0 {
		return ""
	}
	return p.Embedded.FeaturedMedia[0].SourceURL
}

// MediaLink returns the href of the linked featured-media resource, if any.
func (p *Post) MediaLink() string {
	if len(p.Links.FeaturedMedia) == 0 {
		return ""
	}
	return p.Links.FeaturedMedia[0].Href
}
