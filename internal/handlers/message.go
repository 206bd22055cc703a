package handlers

import (
	"net/http"
	"time"

	"github.com/eonchat/server/internal/activity"
	"github.com/eonchat/server/internal/middleware"
	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MessageHandler handles HTTP requests for one-to-one chat history
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	userRepository    repositories.UserRepository
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		userRepository:    userRepo,
	}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages/send", h.SendMessage)
	g.GET("/messages/:otherUserId", h.GetConversation)
	g.GET("/messages/:otherUserId/activity", h.GetActivityReport)
	g.PATCH("/messages/:otherUserId/read", h.MarkConversationRead)
}

// SendMessage persists a message after verifying the friendship still holds.
// The isUnfriended flag lets the client distinguish a revoked friendship
// from a plain authorization failure.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid receiver ID")
	}

	ctx := c.Request().Context()

	sender, err := h.userRepository.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !sender.HasFriend(receiverID) {
		return c.JSON(http.StatusForbidden, echo.Map{
			"message":      "You can only message your friends",
			"isUnfriended": true,
		})
	}

	message := &models.Message{
		Sender:    sender.ID,
		Receiver:  receiverID,
		Content:   req.Content,
		Timestamp: time.Now(),
		IsRead:    false,
	}
	if err := h.messageRepository.CreateMessage(ctx, message); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, models.PopulatedMessage{
		ID:        message.ID,
		Sender:    sender.ToCompact(),
		Receiver:  message.Receiver,
		Content:   message.Content,
		Timestamp: message.Timestamp,
		IsRead:    message.IsRead,
	})
}

// GetConversation returns the full history with the other user, oldest
// first. A conversation with a non-friend is empty, not an error: the
// cascade on unfriending already removed the documents.
func (h *MessageHandler) GetConversation(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID := c.Param("otherUserId")
	if _, err := primitive.ObjectIDFromHex(otherID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	messages, err := h.messageRepository.GetConversation(c.Request().Context(), claims.UserID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, messages)
}

// GetActivityReport computes the peak chat hour for a conversation
func (h *MessageHandler) GetActivityReport(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID := c.Param("otherUserId")
	if _, err := primitive.ObjectIDFromHex(otherID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	messages, err := h.messageRepository.GetConversation(c.Request().Context(), claims.UserID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	timestamps := make([]time.Time, 0, len(messages))
	for _, m := range messages {
		timestamps = append(timestamps, m.Timestamp)
	}

	report := activity.BuildReport(timestamps)
	if report == nil {
		return c.JSON(http.StatusOK, echo.Map{"message": "No messages to analyze"})
	}
	return c.JSON(http.StatusOK, report)
}

// MarkConversationRead flags every message the other user sent as read
func (h *MessageHandler) MarkConversationRead(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	otherID := c.Param("otherUserId")
	if _, err := primitive.ObjectIDFromHex(otherID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.messageRepository.MarkConversationRead(c.Request().Context(), claims.UserID, otherID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Conversation marked as read"})
}
