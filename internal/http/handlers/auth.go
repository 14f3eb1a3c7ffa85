package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mcarreira/lingohub/internal/auth"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
	"github.com/mcarreira/lingohub/internal/repo/postgres"
	"github.com/mcarreira/lingohub/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, u user.User) error
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        user.Public `json:"user"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password, h.cfg.BcryptCost)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = h.userWriter.Create(cctx, u)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondBadRequest(ctx, "email_taken", "Email is already registered.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	accessToken, err := h.jwt.IssueAccessToken(u.ID, u.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusCreated, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        u.Public(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	// unknown email and wrong password produce the same response shape so
	// neither case leaks which one was true; a store failure is not a
	// credential problem and surfaces as 500
	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	if !security.CheckPassword(foundUser.PasswordHash, req.Password) {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	accessToken, err := h.jwt.IssueAccessToken(foundUser.ID, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        foundUser.Public(),
	})
}

// Me returns the identity resolved by the auth middleware.
func (h *AuthHandler) Me(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	ctx.JSON(http.StatusOK, u.Public())
}
