package handlers

import (
	"log"
	"net/http"

	"github.com/eonchat/server/internal/graph"
	"github.com/eonchat/server/internal/middleware"
	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

const searchResultLimit = 10

// UserHandler handles HTTP requests related to users and the friendship graph
type UserHandler struct {
	userRepository       repositories.UserRepository
	messageRepository    repositories.MessageRepository
	friendshipRepository repositories.FriendshipRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, messageRepo repositories.MessageRepository, friendshipRepo repositories.FriendshipRepository) *UserHandler {
	return &UserHandler{
		userRepository:       userRepo,
		messageRepository:    messageRepo,
		friendshipRepository: friendshipRepo,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/friends", h.GetFriends)
	g.POST("/users/add-friend", h.AddFriend)
	g.POST("/users/remove-friend", h.RemoveFriend)
	g.GET("/users/network", h.GetNetwork)
	g.GET("/users/recommendations", h.GetRecommendations)
}

// SearchUsers performs a prefix search on usernames
func (h *UserHandler) SearchUsers(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusOK, []models.UserCompact{})
	}

	users, err := h.userRepository.SearchByUsernamePrefix(c.Request().Context(), query, claims.UserID, searchResultLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GetFriends retrieves the authenticated user's friend list
func (h *UserHandler) GetFriends(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	friends, err := h.userRepository.GetFriends(c.Request().Context(), claims.UserID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, friends)
}

// AddFriend creates the undirected edge directly (both adjacency lists)
func (h *UserHandler) AddFriend(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AddFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.FriendID == claims.UserID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot add yourself")
	}

	if err := h.userRepository.AddFriendEdge(c.Request().Context(), claims.UserID, req.FriendID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Friend added successfully"})
}

// RemoveFriend removes the edge from both sides and cascade-deletes the
// conversation so no message outlives the friendship
func (h *UserHandler) RemoveFriend(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.AddFriendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if err := h.userRepository.RemoveFriendEdge(ctx, claims.UserID, req.FriendID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.messageRepository.DeleteConversation(ctx, claims.UserID, req.FriendID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// clear old requests so either side can send a fresh one later
	if err := h.friendshipRepository.DeleteRequestsBetween(claims.UserID, req.FriendID); err != nil {
		log.Printf("request cleanup between %s and %s failed: %v", claims.UserID, req.FriendID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"msg": "Friend and chats removed successfully"})
}

// GetNetwork returns the full friendship snapshot (id, username, friends)
func (h *UserHandler) GetNetwork(c echo.Context) error {
	users, err := h.userRepository.GetNetwork(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

// GetRecommendations runs the friends-of-friends query for the
// authenticated user over a fresh network snapshot
func (h *UserHandler) GetRecommendations(c echo.Context) error {
	claims := middleware.UserFromContext(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	users, err := h.userRepository.GetNetwork(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	nodes := make([]graph.UserNode, 0, len(users))
	for _, u := range users {
		friends := make([]string, 0, len(u.Friends))
		for _, f := range u.Friends {
			friends = append(friends, f.Hex())
		}
		nodes = append(nodes, graph.UserNode{
			ID:       u.ID.Hex(),
			Username: u.Username,
			Friends:  friends,
		})
	}

	recs := graph.BuildFromSnapshot(nodes).Recommendations(claims.UserID)
	return c.JSON(http.StatusOK, recs)
}
