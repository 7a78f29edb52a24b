package cities

import (
	"strings"

	"github.com/pranavdhawann/weather-dashboard/internal/model"
)

// mojibakeRepairs undoes the double-encoded UTF-8 artifacts that show up when
// an accented city name passes through a latin-1 round trip. The longer
// sequence must be replaced first.
var mojibakeRepairs = strings.NewReplacer(
	"ÃƒÂ£", "ã",
	"Ã£", "ã",
)

// Normalizer resolves raw city-name variants to canonical registry names.
// Every raw name entering the pipeline must pass through Normalize before it
// is used as a key; downstream components trust canonical names only.
type Normalizer struct {
	registry *Registry
}

// NewNormalizer creates a Normalizer over the given registry.
func NewNormalizer(r *Registry) *Normalizer {
	return &Normalizer{registry: r}
}

// Normalize maps a raw city name to its canonical form. Resolution order:
// encoding repair, exact match, alias match, case-insensitive match, then a
// first-token containment match for multi-word names. Unresolvable names are
// rejected with a not-found error rather than guessed.
func (n *Normalizer) Normalize(raw string) (string, error) {
	name := strings.TrimSpace(mojibakeRepairs.Replace(raw))
	if name == "" {
		return "", model.NewError(model.KindNotFound, "empty city name")
	}

	if _, ok := n.registry.Lookup(name); ok {
		return name, nil
	}
	if canonical, ok := n.registry.aliases[strings.ToLower(name)]; ok {
		return canonical, nil
	}

	lower := strings.ToLower(name)
	for _, canonical := range n.registry.names {
		if strings.ToLower(canonical) == lower {
			return canonical, nil
		}
	}

	// Multi-word names stored with inconsistent spellings still share a
	// recognizable first token ("New York City" matches "New York"). The
	// heuristic only applies to multi-word input; single tokens are too
	// ambiguous to guess from.
	if fields := strings.Fields(lower); len(fields) > 1 {
		tok := fields[0]
		for _, canonical := range n.registry.names {
			cl := strings.ToLower(canonical)
			if cl == tok || strings.HasPrefix(cl, tok+" ") {
				return canonical, nil
			}
		}
	}

	return "", model.NewError(model.KindNotFound, "unknown city %q", raw)
}

// MatchPattern returns the SQL LIKE pattern used to catch legacy misspelled
// rows for a canonical city: any row containing the name's last token.
func MatchPattern(canonical string) string {
	tok := lastToken(strings.ToLower(canonical))
	if tok == "" {
		return canonical
	}
	return "%" + tok + "%"
}

func lastToken(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
