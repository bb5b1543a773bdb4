package schemavalidator

import "strings"

// Draft identifies a JSON Schema draft.
type Draft string

// Supported drafts.
const (
	// DraftV3 is draft-zyp-json-schema-03.
	DraftV3 Draft = "draftv3"
	// DraftV4 is draft-zyp-json-schema-04.
	DraftV4 Draft = "draftv4"
)

// String returns the draft identifier.
func (d Draft) String() string {
	return string(d)
}

// IsValid returns true if this is a supported draft.
func (d Draft) IsValid() bool {
	switch d {
	case DraftV3, DraftV4:
		return true
	default:
		return false
	}
}

// SchemaURI returns the meta-schema URI used in "$schema" for the draft.
func (d Draft) SchemaURI() string {
	cfg, ok := draftConfigs[d]
	if !ok {
		return ""
	}
	return cfg.SchemaURI
}

// draftConfig holds draft-specific configuration.
type draftConfig struct {
	// SchemaURI is the canonical meta-schema URI
	SchemaURI string

	// Aliases are other "$schema" spellings seen in the wild
	Aliases []string
}

var draftConfigs = map[Draft]draftConfig{
	DraftV3: {
		SchemaURI: "http://json-schema.org/draft-03/schema#",
	},
	DraftV4: {
		SchemaURI: "http://json-schema.org/draft-04/schema#",
		Aliases:   []string{"http://json-schema.org/schema#"},
	},
}

// DraftFromSchemaURI maps a "$schema" value to a draft. The trailing empty
// fragment and the URI scheme are not significant.
func DraftFromSchemaURI(uri string) (Draft, bool) {
	want := normalizeSchemaURI(uri)
	if want == "" {
		return "", false
	}
	for d, cfg := range draftConfigs {
		if normalizeSchemaURI(cfg.SchemaURI) == want {
			return d, true
		}
		for _, alias := range cfg.Aliases {
			if normalizeSchemaURI(alias) == want {
				return d, true
			}
		}
	}
	return "", false
}

func normalizeSchemaURI(uri string) string {
	uri = strings.TrimSpace(uri)
	uri = strings.TrimSuffix(uri, "#")
	uri = strings.TrimPrefix(uri, "https://")
	uri = strings.TrimPrefix(uri, "http://")
	return uri
}
