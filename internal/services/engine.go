package services

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/config"
	"winereco/internal/ml"
	"winereco/pkg/models"
)

// Model is a loaded artifact bundle joined with its validated frame: the
// fitted vectorizer, the row-aligned matrix and key list, the item lookup
// (df_idx) and the catalog styles it covers. Read-only for its lifetime.
type Model struct {
	Style      string
	Styles     []string
	Vectorizer *ml.Vectorizer
	Matrix     []ml.Vector
	Keys       []models.ItemKey
	Items      map[models.ItemKey]models.Wine
	Meta       models.ArtifactMeta
}

// Item looks an item up by key. Keys absent from the frame are possible when
// snapshot and artifacts drift; callers skip those rows.
func (m *Model) Item(k models.ItemKey) (models.Wine, bool) {
	w, ok := m.Items[k]
	return w, ok
}

// PreferenceEngine computes preference-aware rankings over a Model. The
// operation is pure given (model, profile): no hidden state, no mutation of
// the matrix or the profile, identical inputs yield identical output.
type PreferenceEngine struct {
	boost   float64
	penalty float64
	logger  *logrus.Logger
}

func NewPreferenceEngine(cfg *config.EngineConfig, logger *logrus.Logger) *PreferenceEngine {
	boost, penalty := cfg.Boost, cfg.Penalty
	if boost == 0 {
		boost = 0.05
	}
	if penalty == 0 {
		penalty = 0.20
	}
	return &PreferenceEngine{boost: boost, penalty: penalty, logger: logger}
}

// ScoreByTerms computes the base similarity of every row against a query
// built from the given terms, falling back to the literal query "wine" when
// none are supplied. Rows are L2-normalized at fit time, so the dot product
// against the normalized query vector is cosine similarity.
func (e *PreferenceEngine) ScoreByTerms(m *Model, terms []string) []float64 {
	query := strings.ToLower(strings.TrimSpace(strings.Join(terms, " ")))
	if query == "" {
		query = "wine"
	}
	qv := m.Vectorizer.TransformOne(query)
	scores := make([]float64, len(m.Matrix))
	for i, row := range m.Matrix {
		scores[i] = row.Dot(qv)
	}
	return scores
}

// Recommend runs the full pipeline: base similarity, style gate, soft
// boosts/penalties, hard filters, stable top-K. Partial results are valid
// when fewer than k rows survive the hard filters; the result is never
// padded.
func (e *PreferenceEngine) Recommend(m *Model, profile models.UserProfile, k int) []models.ScoredItem {
	scores := e.ScoreByTerms(m, profile.Terms)
	allowed := AllowedStyles(m.Styles, profile)
	e.applySoftPrefs(scores, m, profile)
	eligible := e.hardFilter(m, profile, allowed)
	picks := topK(scores, m.Keys, eligible, k)

	e.logger.WithFields(logrus.Fields{
		"user_id": profile.UserID,
		"style":   m.Style,
		"k":       k,
		"picked":  len(picks),
	}).Debug("Preference ranking complete")

	return picks
}

// AllowedStyles resolves the style gate: the intersection of catalog styles
// with preferred styles when any are set, otherwise catalog styles minus the
// avoided ones.
func AllowedStyles(catalog []string, profile models.UserProfile) map[string]bool {
	allowed := make(map[string]bool, len(catalog))
	if len(profile.PreferredStyles) > 0 {
		pref := lowerSet(profile.PreferredStyles)
		for _, s := range catalog {
			if pref[strings.ToLower(s)] {
				allowed[s] = true
			}
		}
		return allowed
	}
	avoid := lowerSet(profile.AvoidStyles)
	for _, s := range catalog {
		if !avoid[strings.ToLower(s)] {
			allowed[s] = true
		}
	}
	return allowed
}

// applySoftPrefs nudges scores in place: +boost for each preferred dimension
// an item matches (country, winery, free text), -penalty for each avoided
// one. Dimensions are independent and additive. Rows whose key is missing
// from the item lookup are skipped unchanged.
func (e *PreferenceEngine) applySoftPrefs(scores []float64, m *Model, u models.UserProfile) {
	pc := lowerSet(u.PreferCountries)
	ac := lowerSet(u.AvoidCountries)
	pw := lowerSet(u.PreferWineries)
	aw := lowerSet(u.AvoidWineries)
	pt := lowerList(u.Terms)
	at := lowerList(u.AvoidTerms)

	for i, key := range m.Keys {
		item, ok := m.Items[key]
		if !ok {
			continue
		}
		country := strings.ToLower(item.Country)
		winery := strings.ToLower(item.Winery)
		text := DisplayText(item)

		if len(pc) > 0 && pc[country] {
			scores[i] += e.boost
		}
		if len(ac) > 0 && ac[country] {
			scores[i] -= e.penalty
		}
		if len(pw) > 0 && pw[winery] {
			scores[i] += e.boost
		}
		if len(aw) > 0 && aw[winery] {
			scores[i] -= e.penalty
		}
		if containsAny(text, pt) {
			scores[i] += e.boost
		}
		if containsAny(text, at) {
			scores[i] -= e.penalty
		}
	}
}

// hardFilter computes per-row eligibility: the style gate plus, when the
// profile sets a nonzero threshold, minimum rating and minimum review count.
// Ineligible rows can never be selected regardless of score.
func (e *PreferenceEngine) hardFilter(m *Model, u models.UserProfile, allowed map[string]bool) []bool {
	eligible := make([]bool, len(m.Keys))
	for i, key := range m.Keys {
		if !allowed[key.Style] {
			continue
		}
		if u.MinRating > 0 || u.MinReviews > 0 {
			item, ok := m.Items[key]
			if !ok {
				continue
			}
			if u.MinRating > 0 && item.Rating.Avg() < u.MinRating {
				continue
			}
			if u.MinReviews > 0 && item.Rating.ReviewsCount() < u.MinReviews {
				continue
			}
		}
		eligible[i] = true
	}
	return eligible
}

// topK stably sorts eligible rows by descending score and returns the first
// k. Exactly equal scores keep their original row order.
func topK(scores []float64, keys []models.ItemKey, eligible []bool, k int) []models.ScoredItem {
	idx := make([]int, 0, len(scores))
	for i := range scores {
		if eligible == nil || eligible[i] {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})
	if k > 0 && len(idx) > k {
		idx = idx[:k]
	}
	picks := make([]models.ScoredItem, len(idx))
	for i, row := range idx {
		picks[i] = models.ScoredItem{Key: keys[row], Score: scores[row], Row: row}
	}
	return picks
}

// TopKByScore is the raw-similarity selection used by the query endpoint:
// no gating, no adjustments.
func TopKByScore(scores []float64, keys []models.ItemKey, k int) []models.ScoredItem {
	return topK(scores, keys, nil, k)
}

func lowerSet(xs []string) map[string]bool {
	if len(xs) == 0 {
		return nil
	}
	set := make(map[string]bool, len(xs))
	for _, x := range xs {
		set[strings.ToLower(x)] = true
	}
	return set
}

func lowerList(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x != "" {
			out = append(out, strings.ToLower(x))
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
