// Package storefront renders the store page a game opens for its players.
package storefront

import (
	"net/http"
	"net/url"
	"strings"
)

const blankPage = "about:blank"

// LaunchContext is what the game passed when it opened the store.
type LaunchContext struct {
	PlayerID string
	GameURL  string
}

// ParseLaunchContext reads the player id and game URL from the query string
// or posted form, falling back to the Referer header for the game URL. A
// referer on the store's own host is ignored.
func ParseLaunchContext(r *http.Request) LaunchContext {
	return LaunchContext{
		PlayerID: firstNonEmpty(r.FormValue("playerId"), r.FormValue("player"), r.FormValue("userId")),
		GameURL:  firstNonEmpty(r.FormValue("gameUrl"), r.FormValue("returnUrl"), externalReferer(r)),
	}
}

func externalReferer(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err == nil && strings.EqualFold(u.Host, r.Host) {
		return ""
	}
	return ref
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// HasGame reports whether the store knows where to send the player back to.
func (lc LaunchContext) HasGame() bool {
	return lc.GameURL != "" && lc.GameURL != blankPage
}

// ReturnURL is the game URL with creditsUpdated=true and playerId merged into
// its query. Game URLs that do not parse as absolute URLs are returned as-is.
func (lc LaunchContext) ReturnURL(playerID string) string {
	if !lc.HasGame() {
		return ""
	}
	u, err := url.Parse(lc.GameURL)
	if err != nil || !u.IsAbs() {
		return lc.GameURL
	}
	q := u.Query()
	q.Set("creditsUpdated", "true")
	q.Set("playerId", playerID)
	u.RawQuery = q.Encode()
	return u.String()
}

// StoreLink builds the URL a game should open for playerID.
func StoreLink(publicURL, playerID, gameURL string) string {
	q := url.Values{}
	if playerID != "" {
		q.Set("playerId", playerID)
	}
	if gameURL != "" && gameURL != blankPage {
		q.Set("gameUrl", gameURL)
	}
	link := strings.TrimRight(publicURL, "/") + "/"
	if len(q) == 0 {
		return link
	}
	return link + "?" + q.Encode()
}
