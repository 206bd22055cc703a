package handlers

import (
	"net/http"

	"github.com/eonchat/server/internal/middleware"
	"github.com/eonchat/server/internal/relay"
	"github.com/labstack/echo/v4"
)

// WebSocketHandler upgrades authenticated clients onto the realtime relay
type WebSocketHandler struct {
	hub       *relay.Hub
	relay     *relay.Relay
	jwtSecret string
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *relay.Hub, rly *relay.Relay, jwtSecret string) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, relay: rly, jwtSecret: jwtSecret}
}

// Serve verifies the token passed as a query parameter (browsers cannot set
// headers on websocket upgrades) and hands the connection to the relay. The
// sender identity used for every frame comes from these claims, never from
// the frames themselves.
func (h *WebSocketHandler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	return relay.ServeWS(h.hub, h.relay, c.Response(), c.Request(), claims.UserID, claims.Username)
}
