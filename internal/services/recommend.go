package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"winereco/pkg/models"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "winereco_queries_total",
		Help: "Recommendation queries served, by style and cache outcome.",
	}, []string{"style", "cache"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "winereco_query_duration_seconds",
		Help:    "Latency of recommendation queries.",
		Buckets: prometheus.DefBuckets,
	})
)

// RecommendationService is the serving-side facade: it owns the model cache,
// answers raw-similarity queries (with a Redis cache-aside) and runs the
// preference engine for profile requests.
type RecommendationService struct {
	cache  *ModelCache
	engine *PreferenceEngine
	redis  *redis.Client // nil disables result caching
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRecommendationService(
	cache *ModelCache,
	engine *PreferenceEngine,
	redisClient *redis.Client,
	ttl time.Duration,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		cache:  cache,
		engine: engine,
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// ModelInfo reports the artifact metadata for a style, loading on first use.
func (s *RecommendationService) ModelInfo(style string) (models.ArtifactMeta, error) {
	m, err := s.cache.Get(style)
	if err != nil {
		return models.ArtifactMeta{}, err
	}
	return m.Meta, nil
}

// Query returns the top-K most similar items to a free-text query by raw
// cosine similarity, with no preference adjustment. This is the simple code
// path: vectorize, score every row, take K.
func (s *RecommendationService) Query(ctx context.Context, style, query string, k int) (*models.QueryResponse, error) {
	start := time.Now()
	defer func() { queryDuration.Observe(time.Since(start).Seconds()) }()

	cacheKey := fmt.Sprintf("query:%s:%s:%d", style, query, k)
	if cached, err := s.getCachedResults(ctx, cacheKey); err == nil && cached != nil {
		queriesTotal.WithLabelValues(style, "hit").Inc()
		return &models.QueryResponse{
			Query: query, Style: style, TopK: cached,
			GeneratedAt: time.Now().UTC(), CacheHit: true,
		}, nil
	}

	m, err := s.cache.Get(style)
	if err != nil {
		return nil, err
	}

	qv := m.Vectorizer.TransformOne(query)
	scores := make([]float64, len(m.Matrix))
	for i, row := range m.Matrix {
		scores[i] = row.Dot(qv)
	}
	topK := TopKByScore(scores, m.Keys, k)

	if err := s.cacheResults(ctx, cacheKey, topK); err != nil {
		s.logger.WithError(err).Warn("Failed to cache query results")
	}
	queriesTotal.WithLabelValues(style, "miss").Inc()

	return &models.QueryResponse{
		Query: query, Style: style, TopK: topK,
		GeneratedAt: time.Now().UTC(), CacheHit: false,
	}, nil
}

// RecommendForProfile runs the full preference engine for one profile.
func (s *RecommendationService) RecommendForProfile(style string, profile models.UserProfile, k int) (*models.ProfileResponse, error) {
	m, err := s.cache.Get(style)
	if err != nil {
		return nil, err
	}
	picks := s.engine.Recommend(m, profile, k)

	recos := make([]models.Recommendation, 0, len(picks))
	for _, p := range picks {
		r := models.Recommendation{Key: p.Key, Score: p.Score}
		if item, ok := m.Items[p.Key]; ok {
			r.Wine, r.Winery, r.Country, r.Image = item.Wine, item.Winery, item.Country, item.Image
		}
		recos = append(recos, r)
	}
	return &models.ProfileResponse{
		UserID:          profile.UserID,
		Style:           style,
		Recommendations: recos,
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func (s *RecommendationService) getCachedResults(ctx context.Context, key string) ([]models.ScoredItem, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("cache disabled")
	}
	cached := s.redis.Get(ctx, key).Val()
	if cached == "" {
		return nil, fmt.Errorf("cache miss")
	}
	var results []models.ScoredItem
	if err := json.Unmarshal([]byte(cached), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RecommendationService) cacheResults(ctx context.Context, key string, results []models.ScoredItem) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, key, data, s.ttl).Err()
}
