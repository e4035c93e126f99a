package handlers

import (
	"github.com/sirupsen/logrus"

	"winereco/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Recommendation *RecommendationHandler
}

func New(logger *logrus.Logger, reco *services.RecommendationService) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger),
		Recommendation: NewRecommendationHandler(reco, logger),
	}
}
