package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/eonchat/server/internal/models"
	"github.com/eonchat/server/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	userRepository repositories.UserRepository
	otpRepository  repositories.OtpRepository
	mail           Mailer
	firebaseAuth   *auth.Client
	jwtSecret      string
}

// Mailer is the outbound email capability the OTP flows depend on
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlContent string) error
}

// NewAuthHandler creates a new AuthHandler. firebaseAuthClient may be nil
// when Firebase login is not configured.
func NewAuthHandler(userRepo repositories.UserRepository, otpRepo repositories.OtpRepository, mail Mailer, firebaseAuthClient *auth.Client, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		otpRepository:  otpRepo,
		mail:           mail,
		firebaseAuth:   firebaseAuthClient,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/send-otp", h.SendOtp)
	g.POST("/verify-otp", h.VerifyOtp)
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// generateOtp returns a random 6-digit code
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendOtp emails a signup verification code
func (h *AuthHandler) SendOtp(c echo.Context) error {
	var req models.SendOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// an email can only back one account
	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already linked to an account")
	} else if err != mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	otp, err := generateOtp()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate OTP")
	}

	if err := h.otpRepository.Replace(ctx, req.Email, otp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mail.Send(ctx, req.Email, "Your EonChat Verification Code", otpEmailBody(otp)); err != nil {
		log.Printf("OTP email to %s failed: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send OTP")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent successfully"})
}

// VerifyOtp checks a code without consuming it (signup consumes it)
func (h *AuthHandler) VerifyOtp(c echo.Context) error {
	var req models.VerifyOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.otpRepository.Verify(c.Request().Context(), req.Email, req.Otp); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired OTP")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during verification")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP Verified Successfully"})
}

// Signup handles final registration
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if !models.ValidUsername(req.Username) {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("%s is not a valid username! Must contain a number and no special characters.", req.Username))
	}

	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
	} else if err != mongo.ErrNoDocuments {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if req.Email != "" {
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Email already exists")
		} else if err != mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// consume the verification code
	if req.Email != "" {
		if err := h.otpRepository.DeleteForEmail(ctx, req.Email); err != nil {
			log.Printf("OTP cleanup for %s failed: %v", req.Email, err)
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

// Login verifies credentials and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	user, err := h.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusBadRequest, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid password")
	}

	token, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user.ToCompact(),
	})
}

// ForgotPassword emails a reset code to a registered address
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.SendOtpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusNotFound, "No account found with this email")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	otp, err := generateOtp()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate OTP")
	}
	if err := h.otpRepository.Replace(ctx, req.Email, otp); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.mail.Send(ctx, req.Email, "Reset Your Password", resetEmailBody(otp)); err != nil {
		log.Printf("reset email to %s failed: %v", req.Email, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send OTP")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "OTP sent to email"})
}

// ResetPassword verifies the reset code and updates the stored hash
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	if err := h.otpRepository.Verify(ctx, req.Email, req.Otp); err != nil {
		if err == mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid or expired OTP")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	if err := h.userRepository.UpdatePasswordByEmail(ctx, req.Email, string(hashedPassword)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.otpRepository.DeleteForEmail(ctx, req.Email); err != nil {
		log.Printf("OTP cleanup for %s failed: %v", req.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

// FirebaseLogin verifies a Firebase ID token and issues a local JWT,
// creating an account on first login
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebaseAuth == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase login is not configured")
	}

	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Firebase token carries no email")
	}
	email = strings.ToLower(email)

	user, err := h.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		user = &models.User{
			Username:     usernameFromEmail(email, token.UID),
			Email:        email,
			PasswordHash: "firebase:" + token.UID, // never matches a bcrypt compare
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
		}
	}

	localJWT, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"token": localJWT,
		"user":  user.ToCompact(),
	})
}

// usernameFromEmail derives a policy-conforming username from the email
// local part plus a digit suffix taken from the Firebase UID
func usernameFromEmail(email, uid string) string {
	local := strings.SplitN(email, "@", 2)[0]
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	suffix := 0
	for _, r := range uid {
		suffix = (suffix*31 + int(r)) % 10000
	}
	return fmt.Sprintf("%s%04d", b.String(), suffix)
}

// generateJWT generates a signed token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func otpEmailBody(otp string) string {
	return fmt.Sprintf(`
		<h3>Welcome to EonChat!</h3>
		<p>Your verification code is:</p>
		<h1 style="letter-spacing:5px;color:#208c8c">%s</h1>
		<p>This code expires in 5 minutes.</p>
	`, otp)
}

func resetEmailBody(otp string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 500px;">
			<h3>Password Reset Request</h3>
			<p>Use the following code to reset your password:</p>
			<h1 style="color: #e63946; letter-spacing: 4px;">%s</h1>
			<p>This code will expire in <b>5 minutes</b>.</p>
			<p>If you did not request this, you can safely ignore this email.</p>
			<hr />
			<p style="font-size: 12px; color: #666;">EonChat Security</p>
		</div>
	`, otp)
}
