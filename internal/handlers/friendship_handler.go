package handlers

import (
	"net/http"

	"github.com/eonchat/server/internal/middleware"
	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// FriendshipHandler handles the friend request lifecycle
type FriendshipHandler struct {
	friendshipRepository repositories.FriendshipRepository
	userRepository       repositories.UserRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, userRepo repositories.UserRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository: friendshipRepo,
		userRepository:       userRepo,
	}
}

// RegisterFriendshipRoutes registers friend-request routes
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.POST("/requests/send", h.SendFriendRequest)
	g.GET("/requests/pending", h.GetPendingRequests)
	g.POST("/requests/accept", h.AcceptFriendRequest)
}

// SendFriendRequest creates a pending request after the self, duplicate
// and already-friends guards. The response carries the sender populated
// so the client can forward it straight onto the realtime channel.
func (h *FriendshipHandler) SendFriendRequest(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.ReceiverID == claims.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot send a friend request to yourself")
	}
	receiverOID, err := primitive.ObjectIDFromHex(req.ReceiverID)
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
	if sender.HasFriend(receiverOID) {
		return echo.NewHTTPError(http.StatusConflict, "You are already friends")
	}
	if _, err := h.userRepository.GetUserByID(ctx, req.ReceiverID); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	pending, err := h.friendshipRepository.HasPendingRequest(claims.UserID, req.ReceiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if pending {
		return echo.NewHTTPError(http.StatusConflict, "Friend request already sent")
	}

	request := &models.FriendRequest{
		SenderID:   claims.UserID,
		ReceiverID: req.ReceiverID,
		Status:     "pending",
	}
	if err := h.friendshipRepository.SendFriendRequest(request); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, models.PopulatedFriendRequest{
		FriendRequest: *request,
		Sender:        sender.ToCompact(),
	})
}

// GetPendingRequests lists requests awaiting the authenticated user's
// decision, each with the sender populated
func (h *FriendshipHandler) GetPendingRequests(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	requests, err := h.friendshipRepository.GetUserPendingFriendRequests(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()
	populated := make([]models.PopulatedFriendRequest, 0, len(requests))
	for _, r := range requests {
		p := models.PopulatedFriendRequest{FriendRequest: r}
		if sender, err := h.userRepository.GetUserByID(ctx, r.SenderID); err == nil {
			p.Sender = sender.ToCompact()
		}
		populated = append(populated, p)
	}
	return c.JSON(http.StatusOK, populated)
}

// AcceptFriendRequest flips the request to accepted and adds the edge to
// both adjacency lists. Only the receiver may accept.
func (h *FriendshipHandler) AcceptFriendRequest(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AcceptFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	request, err := h.friendshipRepository.GetFriendRequestByID(req.RequestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Friend request not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if request.ReceiverID != claims.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to accept this request")
	}
	if request.Status != "pending" {
		return echo.NewHTTPError(http.StatusConflict, "Friend request already handled")
	}

	if err := h.friendshipRepository.AcceptFriendRequest(request.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	ctx := c.Request().Context()
	if err := h.userRepository.AddFriendEdge(ctx, request.SenderID, request.ReceiverID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	friend, err := h.userRepository.GetUserByID(ctx, request.SenderID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Friend request accepted",
		"friend":  friend.ToCompact(),
	})
}
