package index

// Config holds the three sets of field paths the maintainer derives index
// entries for. The engine guards the live configuration with a lock and
// hands immutable clones to writers and readers, so a running plan never
// observes a configuration change.
type Config struct {
	hash   map[string]struct{}
	sorted map[string]struct{}
	geo    map[string]struct{}
}

// NewConfig builds a configuration from the three path lists.
func NewConfig(hashPaths, sortedPaths, geoPaths []string) *Config {
	cfg := &Config{
		hash:   make(map[string]struct{}, len(hashPaths)),
		sorted: make(map[string]struct{}, len(sortedPaths)),
		geo:    make(map[string]struct{}, len(geoPaths)),
	}
	for _, path := range hashPaths {
		cfg.hash[path] = struct{}{}
	}
	for _, path := range sortedPaths {
		cfg.sorted[path] = struct{}{}
	}
	for _, path := range geoPaths {
		cfg.geo[path] = struct{}{}
	}
	return cfg
}

// Clone returns an independent copy. Readers snapshot the configuration
// before planning so dynamic indexing cannot mutate it underneath them.
func (c *Config) Clone() *Config {
	clone := &Config{
		hash:   make(map[string]struct{}, len(c.hash)),
		sorted: make(map[string]struct{}, len(c.sorted)),
		geo:    make(map[string]struct{}, len(c.geo)),
	}
	for path := range c.hash {
		clone.hash[path] = struct{}{}
	}
	for path := range c.sorted {
		clone.sorted[path] = struct{}{}
	}
	for path := range c.geo {
		clone.geo[path] = struct{}{}
	}
	return clone
}

// IsHashIndexed reports whether the path is maintained in the equality index.
func (c *Config) IsHashIndexed(path string) bool {
	_, ok := c.hash[path]
	return ok
}

// IsSortedIndexed reports whether the path is maintained in the sorted index.
func (c *Config) IsSortedIndexed(path string) bool {
	_, ok := c.sorted[path]
	return ok
}

// IsGeoIndexed reports whether the path is maintained in the geospatial index.
func (c *Config) IsGeoIndexed(path string) bool {
	_, ok := c.geo[path]
	return ok
}

// AddHashIndexed registers a path in the equality set. The operation is
// idempotent set-insertion — dynamic indexing never removes paths. Returns
// true when the path was newly added.
func (c *Config) AddHashIndexed(path string) bool {
	if _, ok := c.hash[path]; ok {
		return false
	}
	c.hash[path] = struct{}{}
	return true
}

// HashIndexed returns the configured equality paths.
func (c *Config) HashIndexed() []string {
	paths := make([]string, 0, len(c.hash))
	for path := range c.hash {
		paths = append(paths, path)
	}
	return paths
}
