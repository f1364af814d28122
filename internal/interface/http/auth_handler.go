package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alterlapsus/auth-api/config"
	"github.com/alterlapsus/auth-api/internal/application"
	"github.com/alterlapsus/auth-api/internal/domain/entity"
	"github.com/alterlapsus/auth-api/internal/domain/repository"
	"github.com/alterlapsus/auth-api/pkg/helpers"
	"github.com/alterlapsus/auth-api/pkg/response"
	"github.com/alterlapsus/auth-api/pkg/validation"
)

// AuthHandler exposes POST /api/auth/signup and POST /api/auth/signin.
// It owns field validation and the mapping from pipeline errors to HTTP
// statuses; the login rate limit runs as route middleware before any of
// this, so malformed attempts still consume budget.
type AuthHandler struct {
	Svc       *application.Service
	Validator *validation.Validator
	Logger    *logrus.Logger
	Cfg       *config.Config
}

func NewAuthHandler(svc *application.Service, v *validation.Validator, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Validator: v, Logger: logger, Cfg: cfg}
}

type signupRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=20,username"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6,pwdcomplex"`
	Roles    []string `json:"roles" validate:"omitempty,dive,required"`
}

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles registration: validate -> duplicate pre-check -> role
// resolution -> hash -> persist. Any field violation stops the pipeline
// before the duplicate check runs.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, http.StatusBadRequest, validation.ToFieldErrors(err))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if errs := h.Validator.Check(&req); len(errs) > 0 {
		response.FieldErrors(c, http.StatusBadRequest, errs)
		return
	}
	req.Email = validation.NormalizeEmail(req.Email)

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			response.FieldErrors(c, http.StatusBadRequest, []validation.FieldError{
				{Field: "username", Message: "is already in use"},
			})
		case errors.Is(err, repository.ErrDuplicateEmail):
			response.FieldErrors(c, http.StatusBadRequest, []validation.FieldError{
				{Field: "email", Message: "is already in use"},
			})
		case errors.Is(err, application.ErrUnknownRole):
			response.FieldErrors(c, http.StatusBadRequest, []validation.FieldError{
				{Field: "roles", Message: "contains a role that does not exist"},
			})
		default:
			h.internalError(c, "signup failed", err)
		}
		return
	}

	response.OK(c, "User registered successfully", gin.H{"user": userPayload(u)})
}

// Signin handles authentication. Validation here is presence-only; unknown
// username and wrong password produce the same generic 401.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FieldErrors(c, http.StatusBadRequest, validation.ToFieldErrors(err))
		return
	}

	// Presence is checked on trimmed values, but the password is verified
	// exactly as submitted.
	req.Username = strings.TrimSpace(req.Username)
	check := req
	check.Password = strings.TrimSpace(req.Password)
	if errs := h.Validator.Check(&check); len(errs) > 0 {
		response.FieldErrors(c, http.StatusBadRequest, errs)
		return
	}

	u, err := h.Svc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Message(c, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.internalError(c, "signin failed", err)
		return
	}

	response.OK(c, "Signed in successfully", gin.H{"user": userPayload(u)})
}

// internalError logs full detail server-side and answers with a generic
// message; detail is echoed to the client only outside production.
func (h *AuthHandler) internalError(c *gin.Context, msg string, err error) {
	helpers.LogError(h.Logger, msg, err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
	if h.Cfg != nil && !h.Cfg.IsProduction() {
		response.Message(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Message(c, http.StatusInternalServerError, "internal server error")
}

func userPayload(u *entity.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"roles":    u.RoleNames(),
	}
}
