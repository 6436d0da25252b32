package handlers

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/url"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/config"
	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/models"
	"github.com/creditstore/backend/internal/services"
	"github.com/creditstore/backend/internal/storefront"
)

const (
	msgLoadFailed      = "Error loading system. Please refresh the page."
	msgPlayerNotFound  = "Player not found. Please check your player ID."
	msgSelectPackage   = "Please select a credit package"
	msgPaymentError    = "Payment processing error. Please try again."
	msgPaymentComplete = "Payment successful! %s credits added. New balance: %s credits"

	qrSize = 256
)

type PlayerFinder interface {
	FindActive(ctx context.Context, playerID string) (*models.Player, error)
}

type PackageLister interface {
	ListActive(ctx context.Context) ([]models.CreditPackage, error)
}

type PaymentProcessor interface {
	Process(ctx context.Context, req services.PaymentRequest) (*services.PaymentResult, error)
}

// StorefrontHandler serves the store page a game opens for its players.
type StorefrontHandler struct {
	players  PlayerFinder
	catalog  PackageLister
	payments PaymentProcessor
	renderer *storefront.Renderer
	cfg      config.StorefrontConfig
	log      *logger.Logger
}

func NewStorefrontHandler(players PlayerFinder, catalog PackageLister, payments PaymentProcessor, renderer *storefront.Renderer, cfg config.StorefrontConfig, log *logger.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		players:  players,
		catalog:  catalog,
		payments: payments,
		renderer: renderer,
		cfg:      cfg,
		log:      log.With(zap.String("component", "storefront")),
	}
}

func (h *StorefrontHandler) newPage(lc storefront.LaunchContext) *storefront.Page {
	page := &storefront.Page{
		Launch:           lc,
		StoreLinkExample: h.cfg.PublicURL + "/?playerId=PLAYER_ID&gameUrl=GAME_URL",
		QRCodePath:       "/store/qr",
	}
	if lc.PlayerID != "" {
		q := url.Values{"playerId": {lc.PlayerID}}
		if lc.HasGame() {
			q.Set("gameUrl", lc.GameURL)
		}
		page.QRCodePath += "?" + q.Encode()
	}
	return page
}

// load resolves the player and the package grid. It reports whether the
// player was found; on failure page.Status explains why.
func (h *StorefrontHandler) load(ctx context.Context, page *storefront.Page) bool {
	pkgs, err := h.catalog.ListActive(ctx)
	if err != nil {
		h.log.Error("loading packages failed", err)
		page.Status = storefront.Error(msgLoadFailed)
		return false
	}
	page.Packages = pkgs

	player, err := h.players.FindActive(ctx, page.Launch.PlayerID)
	switch {
	case errors.Is(err, services.ErrPlayerNotFound):
		page.Status = storefront.Error(msgPlayerNotFound)
		return false
	case err != nil:
		h.log.Error("loading player failed", err, zap.String("player_id", page.Launch.PlayerID))
		page.Status = storefront.Error(msgLoadFailed)
		return false
	}
	page.Player = player
	return true
}

// Index renders the store for the launching player.
func (h *StorefrontHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(storefront.ParseLaunchContext(r))

	if page.Launch.PlayerID != "" && h.load(r.Context(), page) {
		page.Status = storefront.Success("Welcome back, %s!", page.Player.Username)
	}

	h.render(w, page)
}

// Checkout runs a purchase for the package selected on the store page.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := h.newPage(storefront.ParseLaunchContext(r))

	if page.Launch.PlayerID == "" || !h.load(ctx, page) {
		h.render(w, page)
		return
	}

	packageID := r.FormValue("packageId")
	pkg := findPackage(page.Packages, packageID)
	if pkg == nil {
		page.Status = storefront.Info(msgSelectPackage)
		h.render(w, page)
		return
	}
	page.Selected = pkg.ID

	result, err := h.payments.Process(ctx, services.PaymentRequest{
		PlayerID:  page.Player.ID,
		PackageID: pkg.ID,
		Amount:    pkg.Price,
		Credits:   pkg.Credits,
	})
	if err != nil {
		_, code, msg := services.Describe(err, msgPaymentError)
		if code == services.CodeInternal {
			h.log.Error("checkout failed", err, zap.String("player_id", page.Player.ID))
		}
		page.Status = storefront.Error(msg)
		h.render(w, page)
		return
	}

	// the ledger is authoritative; fall back to the returned balance if the
	// re-read fails
	if refreshed, err := h.players.FindActive(ctx, page.Player.ID); err == nil {
		page.Player = refreshed
	} else {
		h.log.Warn("refreshing player after purchase failed", zap.Error(err))
		updated := *page.Player
		updated.Credits = result.NewCredits
		page.Player = &updated
	}

	page.Selected = ""
	page.Status = storefront.Success(msgPaymentComplete, pkg.Credits.String(), page.Player.Credits.String())
	page.Completed = true
	page.ReturnURL = page.Launch.ReturnURL(page.Player.ID)
	page.RedirectDelayMS = h.cfg.RedirectDelay.Milliseconds()

	h.render(w, page)
}

func findPackage(pkgs []models.CreditPackage, id string) *models.CreditPackage {
	if id == "" {
		return nil
	}
	for i := range pkgs {
		if pkgs[i].ID == id {
			return &pkgs[i]
		}
	}
	return nil
}

func (h *StorefrontHandler) render(w http.ResponseWriter, page *storefront.Page) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.log.Error("rendering store page failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// QRCode renders the store launch link for the given player as a PNG.
func (h *StorefrontHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	lc := storefront.ParseLaunchContext(r)
	link := storefront.StoreLink(h.cfg.PublicURL, lc.PlayerID, lc.GameURL)

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		h.log.Error("building qr code failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrSize)); err != nil {
		h.log.Error("encoding qr code failed", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	buf.WriteTo(w)
}
