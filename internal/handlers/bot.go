package handlers

import (
	"net/http"

	"github.com/eonchat/server/internal/bot"
	"github.com/labstack/echo/v4"
)

// BotHandler answers study questions from the built-in knowledge base
type BotHandler struct {
	engine *bot.Engine
}

// NewBotHandler creates a new BotHandler
func NewBotHandler(engine *bot.Engine) *BotHandler {
	return &BotHandler{engine: engine}
}

// RegisterBotRoutes registers bot-related routes
func (h *BotHandler) RegisterBotRoutes(g *echo.Group) {
	g.POST("/bot/ask", h.Ask)
}

// AskBotRequest defines the request body for a bot question
type AskBotRequest struct {
	Question string `json:"question" validate:"required"`
}

// Ask runs the question through the keyword engine
func (h *BotHandler) Ask(c echo.Context) error {
	var req AskBotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.engine.Respond(req.Question))
}
