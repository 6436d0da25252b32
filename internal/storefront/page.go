package storefront

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/creditstore/backend/internal/models"
)

type StatusKind string

const (
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
	StatusInfo    StatusKind = "info"
)

// Status is the message banner shown under the package grid.
type Status struct {
	Kind StatusKind
	Text string
}

func Success(format string, args ...any) *Status {
	return &Status{Kind: StatusSuccess, Text: fmt.Sprintf(format, args...)}
}

func Error(text string) *Status {
	return &Status{Kind: StatusError, Text: text}
}

func Info(text string) *Status {
	return &Status{Kind: StatusInfo, Text: text}
}

// Page is the view model of the store page.
type Page struct {
	Launch   LaunchContext
	Player   *models.Player
	Packages []models.CreditPackage
	Selected string
	Status   *Status

	// Set after a completed purchase.
	Completed       bool
	ReturnURL       string
	RedirectDelayMS int64

	StoreLinkExample string
	QRCodePath       string
}

// Authenticated reports whether a player was resolved from the launch context.
func (p *Page) Authenticated() bool {
	return p.Player != nil
}

// ShowPackages reports whether the package grid is rendered.
func (p *Page) ShowPackages() bool {
	return p.Player != nil && len(p.Packages) > 0
}

// BackURL is the "Back to Game" target, or empty when the game is unknown.
func (p *Page) BackURL() string {
	id := p.Launch.PlayerID
	if p.Player != nil {
		id = p.Player.ID
	}
	return p.Launch.ReturnURL(id)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func wholeCredits(d decimal.Decimal) string {
	return d.StringFixed(0)
}
