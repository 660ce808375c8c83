package handlers

import (
	"jobguard/internal/domain/services"
	"jobguard/internal/infrastructure/cache"
	"jobguard/internal/infrastructure/database/repository"
	"jobguard/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health *HealthHandler
	Jobs   *JobsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analyzer *services.JobAnalyzer
	Catalog  *services.Catalog
	OCR      *services.OCRClient
	Repo     *repository.AnalysisRepository
	Cache    *cache.RedisCache
	Version  string
	Logger   *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Cache, deps.Repo, deps.Version, deps.Logger),
		Jobs:   NewJobsHandler(deps.Analyzer, deps.Catalog, deps.OCR, deps.Repo, deps.Logger),
	}
}
