package feeds

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one configured RSS/Atom feed.
//
//	sources:
//	  - name: Electrek
//	    url: https://electrek.co/feed/
//	    categories: [EV]
type Source struct {
	Name       string   `yaml:"name"`
	URL        string   `yaml:"url"`
	Categories []string `yaml:"categories"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the feed list from a YAML file. Entries without a URL are
// rejected.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer f.Close()

	var cfg sourcesFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode feeds file %s: %w", path, err)
	}

	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		src.URL = strings.TrimSpace(src.URL)
		if src.URL == "" {
			return nil, fmt.Errorf("sources[%d] has no url", i)
		}
		if src.Name == "" {
			src.Name = src.URL
		}
	}
	return cfg.Sources, nil
}
