package services

import (
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"winereco/internal/ml"
	"winereco/pkg/models"
)

// Evaluator runs the preference engine over a panel of user profiles and
// computes aggregate quality metrics.
type Evaluator struct {
	engine *PreferenceEngine
	logger *logrus.Logger
}

func NewEvaluator(engine *PreferenceEngine, logger *logrus.Logger) *Evaluator {
	return &Evaluator{engine: engine, logger: logger}
}

// Evaluate produces one metrics row per user and the mean summary.
func (ev *Evaluator) Evaluate(m *Model, users []models.UserProfile, k int) ([]models.EvalRow, models.EvalSummary) {
	rows := make([]models.EvalRow, 0, len(users))
	for _, u := range users {
		picks := ev.engine.Recommend(m, u, k)
		rows = append(rows, ev.evaluateUser(m, u, picks))
	}

	styles := append([]string(nil), m.Styles...)
	sort.Strings(styles)
	summary := models.EvalSummary{
		Users:  len(users),
		K:      k,
		Styles: strings.Join(styles, ", "),
	}
	for _, r := range rows {
		summary.AvgHitAtK += float64(r.HitAtK)
		summary.AvgTermsHit += r.TermsHitAtK
		summary.AvgCountryHit += r.CountryHit
		summary.AvgDiversity += r.Diversity
	}
	if len(rows) > 0 {
		n := float64(len(rows))
		summary.AvgHitAtK = round3(summary.AvgHitAtK / n)
		summary.AvgTermsHit = round3(summary.AvgTermsHit / n)
		summary.AvgCountryHit = round3(summary.AvgCountryHit / n)
		summary.AvgDiversity = round3(summary.AvgDiversity / n)
	}

	ev.logger.WithFields(logrus.Fields{
		"users":         summary.Users,
		"k":             summary.K,
		"avg_hit":       summary.AvgHitAtK,
		"avg_diversity": summary.AvgDiversity,
	}).Info("Evaluation complete")

	return rows, summary
}

func (ev *Evaluator) evaluateUser(m *Model, u models.UserProfile, picks []models.ScoredItem) models.EvalRow {
	row := models.EvalRow{UserID: u.UserID, RecoCount: len(picks)}
	if len(picks) == 0 {
		return row
	}

	terms := lowerList(u.Terms)
	pc := lowerSet(u.PreferCountries)

	termMatches, countryMatches := 0, 0
	hit := false
	rowIdxs := make([]int, len(picks))
	for i, p := range picks {
		rowIdxs[i] = p.Row
		item, ok := m.Items[p.Key]
		if !ok {
			continue
		}
		text := DisplayText(item)
		termMatch := len(terms) > 0 && containsAny(text, terms)
		countryMatch := len(pc) > 0 && pc[strings.ToLower(item.Country)]
		if termMatch {
			termMatches++
		}
		if countryMatch {
			countryMatches++
		}
		if termMatch || countryMatch {
			hit = true
		}
	}

	n := float64(len(picks))
	if len(terms) > 0 {
		row.TermsHitAtK = round3(float64(termMatches) / n)
	}
	if len(pc) > 0 {
		row.CountryHit = round3(float64(countryMatches) / n)
	}
	if hit {
		row.HitAtK = 1
	}
	row.ILS = round3(IntraListSimilarity(m.Matrix, rowIdxs))
	row.Diversity = round3(1 - row.ILS)
	return row
}

// IntraListSimilarity is the mean pairwise cosine similarity among the
// selected rows, excluding self-pairs; 0 when fewer than two rows are given.
// Rows are L2-normalized, so pairwise dot products are cosines.
func IntraListSimilarity(matrix []ml.Vector, rows []int) float64 {
	if len(rows) <= 1 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			sum += matrix[rows[i]].Dot(matrix[rows[j]])
			pairs++
		}
	}
	return sum / float64(pairs)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
