package config

import "strings"

func (c *Config) normalize() {
	c.normalizeExtractTypes()
	c.Locale = strings.ToLower(strings.TrimSpace(c.Locale))
	if c.Locale == "" {
		c.Locale = defaultLocale
	}
	c.Proxy = strings.TrimSpace(c.Proxy)
	c.normalizeFFprobe()
	c.normalizeGeo()
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	c.normalizeLogging()
}

// normalizeExtractTypes lowercases and de-duplicates the category list,
// keeping the first occurrence of each.
func (c *Config) normalizeExtractTypes() {
	seen := make(map[string]bool, len(c.ExtractTypes))
	out := make([]string, 0, len(c.ExtractTypes))
	for _, name := range c.ExtractTypes {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	c.ExtractTypes = out
}

func (c *Config) normalizeFFprobe() {
	c.FFprobe.Binary = strings.TrimSpace(c.FFprobe.Binary)
	if c.FFprobe.Binary == "" {
		c.FFprobe.Binary = defaultFFprobeBinary
	}
	if c.FFprobe.TimeoutSeconds == 0 {
		c.FFprobe.TimeoutSeconds = defaultFFprobeTimeout
	}
}

func (c *Config) normalizeGeo() {
	c.Geo.BaseURL = strings.TrimRight(strings.TrimSpace(c.Geo.BaseURL), "/")
	if c.Geo.BaseURL == "" {
		c.Geo.BaseURL = defaultGeoBaseURL
	}
	c.Geo.UserAgent = strings.TrimSpace(c.Geo.UserAgent)
	if c.Geo.UserAgent == "" {
		c.Geo.UserAgent = defaultGeoUserAgent
	}
	if c.Geo.TimeoutSeconds == 0 {
		c.Geo.TimeoutSeconds = defaultGeoTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
