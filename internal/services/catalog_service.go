package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/metrics"
	"github.com/creditstore/backend/internal/models"
)

const catalogCacheKey = "catalog:active_packages"

// CatalogService lists the credit packages on sale. The listing is read
// through redis when a client is configured.
type CatalogService struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	log      *logger.Logger
}

func NewCatalogService(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log *logger.Logger) *CatalogService {
	return &CatalogService{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		log:      log.With(zap.String("component", "catalog")),
	}
}

func (s *CatalogService) cacheEnabled() bool {
	return s.redis != nil && s.cacheTTL > 0
}

// ListActive returns active packages ordered by price, then name.
func (s *CatalogService) ListActive(ctx context.Context) ([]models.CreditPackage, error) {
	if s.cacheEnabled() {
		if pkgs, ok := s.fromCache(ctx); ok {
			return pkgs, nil
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, credits
		FROM credit_packages
		WHERE is_active = true
		ORDER BY price ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying credit packages: %w", err)
	}
	defer rows.Close()

	pkgs := make([]models.CreditPackage, 0)
	for rows.Next() {
		var p models.CreditPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Credits); err != nil {
			return nil, fmt.Errorf("scanning credit package: %w", err)
		}
		pkgs = append(pkgs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating credit packages: %w", err)
	}

	if s.cacheEnabled() {
		s.toCache(ctx, pkgs)
	}
	return pkgs, nil
}

func (s *CatalogService) fromCache(ctx context.Context) ([]models.CreditPackage, bool) {
	data, err := s.redis.Get(ctx, catalogCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
		s.log.Debug("catalog cache miss", zap.String("key", catalogCacheKey))
		return nil, false
	}
	if err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		s.log.Warn("catalog cache read failed", zap.Error(err))
		return nil, false
	}

	var pkgs []models.CreditPackage
	if err := json.Unmarshal(data, &pkgs); err != nil {
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		s.log.Warn("catalog cache entry unreadable", zap.Error(err))
		return nil, false
	}
	metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
	return pkgs, true
}

func (s *CatalogService) toCache(ctx context.Context, pkgs []models.CreditPackage) {
	data, err := json.Marshal(pkgs)
	if err != nil {
		s.log.Warn("catalog cache encode failed", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, catalogCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.log.Warn("catalog cache write failed", zap.Error(err))
	}
}

// FindActive returns one active package straight from the database, so
// payments always check against current prices.
func (s *CatalogService) FindActive(ctx context.Context, packageID string) (*models.CreditPackage, error) {
	var p models.CreditPackage
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, price, credits
		FROM credit_packages
		WHERE id = $1 AND is_active = true`, packageID).
		Scan(&p.ID, &p.Name, &p.Price, &p.Credits)
	if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying package %s: %w", packageID, err)
	}
	return &p, nil
}

// ListPackages returns the active credit packages
// @Summary List credit packages
// @Description Active credit packages ordered by price, then name
// @Tags packages
// @Produce json
// @Success 200 {array} models.CreditPackage
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /credit-packages [get]
func (s *CatalogService) ListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.ListActive(r.Context())
	if err != nil {
		s.log.Error("listing packages failed", err)
		SendErrorResponse(w, http.StatusInternalServerError, CodeInternal, "Failed to load credit packages", nil)
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}
