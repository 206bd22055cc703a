package models

import (
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the identity document stored in MongoDB. Friendships are kept as a
// redundant adjacency list: if A lists B, B lists A. Accept/remove operations
// always touch both documents.
type User struct {
	ID           primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username     string               `json:"username" bson:"username"`
	Email        string               `json:"email,omitempty" bson:"email,omitempty"`
	PasswordHash string               `json:"-" bson:"passwordHash"`
	Friends      []primitive.ObjectID `json:"friends" bson:"friends"`
	CreatedAt    time.Time            `json:"createdAt" bson:"createdAt"`
}

// UserCompact is the public shape handed to other users (search results,
// friend lists, populated message senders).
type UserCompact struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	Email    string             `json:"email,omitempty" bson:"email,omitempty"`
}

// ToCompact strips the user down to its public fields
func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HasFriend reports whether id is in the user's adjacency list
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
var digitRe = regexp.MustCompile(`[0-9]`)

// ValidUsername enforces the signup username policy: alphanumeric, at least
// 4 characters, must contain a digit.
func ValidUsername(username string) bool {
	return len(username) >= 4 && usernameRe.MatchString(username) && digitRe.MatchString(username)
}

// SignupRequest defines the request body for final registration
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=4"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the request body for username/password login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SendOtpRequest defines the request body for requesting a signup OTP
type SendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOtpRequest defines the request body for checking an OTP
type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6"`
}

// ResetPasswordRequest defines the request body for finalizing a password reset
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Otp         string `json:"otp" validate:"required,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// FirebaseLoginRequest exchanges a Firebase ID token for a local JWT
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// AddFriendRequest defines the request body for direct edge mutations
type AddFriendRequest struct {
	FriendID string `json:"friendId" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
