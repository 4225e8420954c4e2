package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aulaplay/aulaplay-go/internal/api/middleware"
	"github.com/aulaplay/aulaplay-go/internal/api/request"
	"github.com/aulaplay/aulaplay-go/internal/api/response"
	"github.com/aulaplay/aulaplay-go/internal/model"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
)

// AuthHandler handles registration and login endpoints
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterAdmin handles POST /api/v1/auth/register/admin
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}

	session, err := h.authService.RegisterAdmin(r.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// RegisterStudent handles POST /api/v1/auth/register/student
func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" {
		WriteError(w, NewInvalidRequestError("username is required"))
		return
	}
	if req.Password == "" {
		WriteError(w, NewInvalidRequestError("password is required"))
		return
	}
	if req.Teacher == "" {
		WriteError(w, NewInvalidRequestError("teacher is required"))
		return
	}

	session, err := h.authService.RegisterStudent(r.Context(), req.Username, req.Password, req.Name, model.TenantID(req.Teacher))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		WriteError(w, NewInvalidRequestError("username and password are required"))
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// GetMe handles GET /api/v1/auth/me
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	principal := middleware.MustGetPrincipal(r.Context())
	response.JSON(w, http.StatusOK, map[string]any{
		"user_id":        string(principal.UserID),
		"role":           string(principal.Role),
		"owner_admin":    tenantOrNil(principal.OwnerAdmin),
		"is_super_admin": principal.IsSuperAdmin,
	})
}

func tenantOrNil(t *model.TenantID) any {
	if t == nil {
		return nil
	}
	return string(*t)
}
