package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/metrics"
	"github.com/creditstore/backend/internal/models"
)

type PlayerService struct {
	db         *sql.DB
	log        *logger.Logger
	validator  *ValidationHelper
	bcryptCost int
}

// CreatePlayerRequest represents the self-registration payload
// @Description Player registration request
type CreatePlayerRequest struct {
	Username string `json:"username" validate:"required" example:"player_one"`
	Email    string `json:"email" validate:"required" example:"player@example.com"`
	Password string `json:"password" validate:"required" example:"secret123"`
}

// CreatePlayerResponse is returned once a player row exists
// @Description Player registration response
type CreatePlayerResponse struct {
	Success  bool   `json:"success" example:"true"`
	Message  string `json:"message" example:"Player created successfully"`
	PlayerID string `json:"playerId" example:"6f1c2a9e-3d4b-4c5a-8e7f-1a2b3c4d5e6f"`
	Username string `json:"username" example:"player_one"`
}

func NewPlayerService(db *sql.DB, log *logger.Logger) *PlayerService {
	return &PlayerService{
		db:         db,
		log:        log.With(zap.String("component", "players")),
		validator:  NewValidationHelper(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// FindActive returns the active player with the given id or ErrPlayerNotFound.
func (s *PlayerService) FindActive(ctx context.Context, playerID string) (*models.Player, error) {
	var p models.Player
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, credits, is_active
		FROM players
		WHERE id = $1 AND is_active = true`, playerID).
		Scan(&p.ID, &p.Username, &p.Email, &p.Credits, &p.IsActive)
	if errors.Is(err, sql.ErrNoRows) || isMalformedID(err) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying player %s: %w", playerID, err)
	}
	return &p, nil
}

// Create registers a new player with a zero balance.
func (s *PlayerService) Create(ctx context.Context, req CreatePlayerRequest) (*CreatePlayerResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.ValidateStruct(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingFields, err)
	}

	var existing string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM players WHERE username = $1 OR email = $2 LIMIT 1",
		req.Username, req.Email).Scan(&existing)
	switch {
	case err == nil:
		return nil, ErrPlayerExists
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("checking existing player: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO players (username, email, password_hash, credits, total_spent, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, true, NOW(), NOW())
		RETURNING id`,
		req.Username, req.Email, string(hash)).Scan(&id)
	if isUniqueViolation(err) {
		// lost a race with a concurrent registration
		return nil, ErrPlayerExists
	}
	if err != nil {
		return nil, fmt.Errorf("inserting player: %w", err)
	}

	metrics.PlayersCreatedTotal.Inc()
	s.log.Info("player created", zap.String("player_id", id), zap.String("username", req.Username))

	return &CreatePlayerResponse{
		Success:  true,
		Message:  "Player created successfully",
		PlayerID: id,
		Username: req.Username,
	}, nil
}

// GetPlayer returns an active player
// @Summary Get player
// @Description Look up an active player by id
// @Tags players
// @Produce json
// @Param playerId path string true "Player ID"
// @Success 200 {object} models.Player
// @Failure 404 {object} ErrorResponse "Player not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /players/{playerId} [get]
func (s *PlayerService) GetPlayer(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerId")

	player, err := s.FindActive(r.Context(), playerID)
	if err != nil {
		if !errors.Is(err, ErrPlayerNotFound) {
			s.log.Error("player lookup failed", err, zap.String("player_id", playerID))
		}
		sendServiceError(w, err, "Failed to load player")
		return
	}

	writeJSON(w, http.StatusOK, player)
}

// CreatePlayer handles player self-registration
// @Summary Create player
// @Description Register a new player with a zero credit balance
// @Tags players
// @Accept json
// @Produce json
// @Param request body CreatePlayerRequest true "Registration request"
// @Success 201 {object} CreatePlayerResponse
// @Failure 400 {object} ErrorResponse "Missing fields or duplicate player"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /create-player [post]
func (s *PlayerService) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.log.Warn("create player: invalid body", zap.Error(err))
		SendErrorResponse(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request", nil)
		return
	}

	resp, err := s.Create(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, resp)
	case errors.Is(err, ErrMissingFields):
		SendErrorResponse(w, http.StatusBadRequest, CodeMissingFields, "Username, email, and password are required", err)
	default:
		if !errors.Is(err, ErrPlayerExists) {
			s.log.Error("create player failed", err)
		}
		sendServiceError(w, err, "Failed to create player")
	}
}
