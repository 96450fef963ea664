package config

// Source describes one remote CMS instance to mirror. Definitions live as
// YAML files in the sources directory; the name is derived from the filename.
type Source struct {
	Name     string         // Derived from filename (without .yml extension)
	URL      string         `yaml:"url"` // Remote posts endpoint
	Settings SourceSettings `yaml:"settings"`
}

type SourceSettings struct {
	Enabled      bool `yaml:"enabled"`
	SyncInterval int  `yaml:"sync_interval"` // seconds
	Timeout      int  `yaml:"timeout"`       // seconds, bounds each outbound call
	SkipMedia    bool `yaml:"skip_media"`    // disable featured image download
	MaxPages     int  `yaml:"max_pages"`     // upper bound on listing pages per run
}
