// Package text canonicalizes free text into a bounded vocabulary of keyword
// tokens and country names. Every function here is pure and deterministic.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonLetter  = regexp.MustCompile(`[^a-z\s]`)
	whitespace = regexp.MustCompile(`\s+`)

	// accentStripper decomposes and drops combining marks, so
	// 'réserve' -> 'reserve' and 'rosé' -> 'rose'.
	accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// phrases are multi-word expressions preserved before single-word tokenization.
var phrases = []string{
	"blanc de blancs", "gran reserva", "vieilles vignes",
	"cote du rhone", "cotes du rhone", "new zealand", "south africa",
	"pedro ximenez", "domaines ott", "jacques selosse",
}

// allow holds grape varieties, styles, regions and flagship houses.
var allow = map[string]struct{}{
	"merlot": {}, "pinot": {}, "noir": {}, "chardonnay": {}, "riesling": {},
	"sauvignon": {}, "cabernet": {}, "syrah": {}, "nebbiolo": {}, "sangiovese": {},
	"tempranillo": {}, "barbera": {}, "grenache": {}, "garnacha": {}, "mourvedre": {},
	"zinfandel": {}, "malbec": {}, "chenin": {}, "viognier": {}, "semillon": {},
	"vermentino": {}, "albarino": {}, "muscat": {},
	"champagne": {}, "prosecco": {}, "cava": {}, "sherry": {}, "tawny": {},
	"vintage": {}, "rose": {},
	"bordeaux": {}, "burgundy": {}, "bourgogne": {}, "loire": {}, "rhone": {},
	"alsace": {}, "provence": {}, "languedoc": {}, "tuscany": {}, "piemonte": {},
	"piedmont": {}, "veneto": {}, "sicily": {}, "rioja": {}, "priorat": {},
	"ribera": {}, "toro": {}, "douro": {}, "alentejo": {}, "mendoza": {},
	"barossa": {}, "mosel": {}, "pfalz": {}, "napa": {}, "sonoma": {},
	"krug": {}, "selosse": {}, "bollinger": {}, "moet": {}, "veuve": {},
	"aubert": {}, "kistler": {},
}

// ban holds ambiguous or noise words seen in catalog names.
var ban = map[string]struct{}{
	"zan": {}, "lot": {}, "medium": {}, "botella": {}, "tour": {}, "del": {},
	"traditional": {}, "nature": {}, "ambassadeur": {}, "peninsula": {},
	"eastern": {}, "petite": {},
}

// stop holds articles, generic wine words and style names; styles are handled
// by the gate, not by terms.
var stop = map[string]struct{}{
	"wine": {}, "nv": {}, "reserve": {}, "grand": {}, "valley": {}, "estate": {},
	"vineyard": {}, "cellars": {}, "winery": {}, "domaine": {}, "cuvee": {},
	"blanc": {}, "rouge": {}, "des": {}, "de": {}, "du": {}, "la": {}, "le": {},
	"les": {}, "et": {},
	"red": {}, "white": {}, "sparkling": {}, "rose": {}, "port": {},
}

var countryAlias = map[string]string{
	"usa": "united states", "u.s.a.": "united states", "u.s.": "united states",
	"us": "united states",
	"england": "united kingdom", "uk": "united kingdom", "u.k.": "united kingdom",
	"korea": "south korea", "republic of korea": "south korea",
}

var countries = map[string]struct{}{
	"united states": {}, "france": {}, "italy": {}, "spain": {}, "portugal": {},
	"germany": {}, "austria": {}, "switzerland": {}, "argentina": {}, "chile": {},
	"australia": {}, "new zealand": {}, "south africa": {}, "united kingdom": {},
}

// StripAccents removes diacritics, leaving base letters intact.
func StripAccents(s string) string {
	if s == "" {
		return ""
	}
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeToken lowercases, strips accents, removes non-letter characters
// and collapses whitespace.
func NormalizeToken(s string) string {
	t := StripAccents(strings.ToLower(s))
	t = nonLetter.ReplaceAllString(t, " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(t, " "))
}

// CanonicalCountry normalizes then resolves aliases, e.g. "U.S.A." and "usa"
// both canonicalize to "united states".
func CanonicalCountry(s string) string {
	// Alias keys with punctuation ("u.s.a.") must match before the
	// punctuation is normalized away.
	raw := strings.TrimSpace(strings.ToLower(s))
	if c, ok := countryAlias[raw]; ok {
		return c
	}
	t := NormalizeToken(s)
	if c, ok := countryAlias[t]; ok {
		return c
	}
	return t
}

// IsCountry reports whether tok canonicalizes to a known country name.
func IsCountry(tok string) bool {
	_, ok := countries[CanonicalCountry(tok)]
	return ok
}

// ExtractTerms pulls meaningful tokens out of free text: phrases are matched
// first (longest list order, spans removed from the text), then remaining
// words of length >= 3 that are not stop-words. The combined list is filtered
// through CleanTerms.
func ExtractTerms(text string, maxTerms int, keepCountries bool) []string {
	t := NormalizeToken(text)
	if t == "" {
		return nil
	}
	var found []string
	tmp := t
	for _, ph := range phrases {
		pp := NormalizeToken(ph)
		if pp != "" && strings.Contains(tmp, pp) {
			if keepCountries || !IsCountry(pp) {
				found = append(found, pp)
			}
			tmp = strings.ReplaceAll(tmp, pp, " ")
		}
	}
	for _, w := range strings.Fields(tmp) {
		if len(w) < 3 {
			continue
		}
		if _, stopped := stop[w]; stopped {
			continue
		}
		found = append(found, w)
	}
	return CleanTerms(found, maxTerms, keepCountries)
}

// CleanTerms deduplicates, keeps phrases first, then single tokens that pass
// the allow list. When nothing passes, it falls back to any token of length
// >= 4 outside the ban/stop sets. Output order is stable (insertion order,
// phrases before single words) and capped at maxTerms.
func CleanTerms(raw []string, maxTerms int, keepCountries bool) []string {
	var toks []string
	seen := make(map[string]struct{})
	for _, t := range raw {
		nt := NormalizeToken(t)
		if nt == "" {
			continue
		}
		if _, dup := seen[nt]; dup {
			continue
		}
		seen[nt] = struct{}{}
		toks = append(toks, nt)
	}

	var kept []string
	joined := " " + strings.Join(toks, " ") + " "
	used := make(map[string]struct{})
	for _, ph := range phrases {
		pp := NormalizeToken(ph)
		if pp == "" || !strings.Contains(joined, pp) {
			continue
		}
		if keepCountries || !IsCountry(pp) {
			kept = append(kept, pp)
		}
		for _, w := range strings.Fields(pp) {
			used[w] = struct{}{}
		}
	}
	for _, t := range toks {
		if _, banned := ban[t]; banned {
			continue
		}
		if _, stopped := stop[t]; stopped {
			continue
		}
		if _, phraseWord := used[t]; phraseWord {
			continue
		}
		if !keepCountries && IsCountry(t) {
			continue
		}
		if _, allowed := allow[t]; allowed {
			kept = append(kept, t)
		}
	}

	if len(kept) == 0 {
		for _, t := range toks {
			if len(t) < 4 {
				continue
			}
			if _, banned := ban[t]; banned {
				continue
			}
			if _, stopped := stop[t]; stopped {
				continue
			}
			if !keepCountries && IsCountry(t) {
				continue
			}
			kept = append(kept, t)
		}
	}
	if maxTerms > 0 && len(kept) > maxTerms {
		kept = kept[:maxTerms]
	}
	return kept
}

// HasAnyTerm reports whether the normalized text contains any of the given
// terms as a substring. Used for display-text matching in evaluation.
func HasAnyTerm(text string, terms []string) bool {
	txt := NormalizeToken(text)
	for _, t := range terms {
		nt := NormalizeToken(t)
		if nt != "" && strings.Contains(txt, nt) {
			return true
		}
	}
	return false
}
