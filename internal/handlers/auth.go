package handlers

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/dimitrije/passvault/internal/services"
	"github.com/dimitrije/passvault/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

const minPasswordLength = 6

type AuthHandler struct {
	userService UserServiceInterface
	jwtService  JWTServiceInterface
}

func NewAuthHandler(userService UserServiceInterface, jwtService JWTServiceInterface) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
	}
}

func (h *AuthHandler) Signup(c *drift.Context) {
	var req dto.SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		c.BadRequest("username, email and password are required")
		return
	}
	if len(req.Password) < minPasswordLength {
		c.BadRequest("password must be at least 6 characters")
		return
	}

	user, err := h.userService.Create(context.Background(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.BadRequest("user already exists with this email")
			return
		}
		log.Printf("signup error: %v", err)
		c.InternalServerError("failed to create account")
		return
	}

	_ = c.JSON(201, dto.SignupResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	// One generic message for unknown email and wrong password.
	user, err := h.userService.Authenticate(context.Background(), req.Email, req.Password)
	if err != nil {
		c.BadRequest("invalid email or password")
		return
	}

	token, err := h.jwtService.Issue(user.ID)
	if err != nil {
		log.Printf("token issue error: %v", err)
		c.InternalServerError("failed to create session")
		return
	}

	_ = c.JSON(200, dto.LoginResponse{
		Token: token,
		User: dto.LoginUserDTO{
			ID:             user.ID,
			Username:       user.Username,
			Email:          user.Email,
			EncryptionSalt: user.EncryptionSalt,
		},
	})
}
