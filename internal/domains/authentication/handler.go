package authentication

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"modulith/pkg/auth"
	"modulith/pkg/controller"
	"modulith/pkg/domain"
	"modulith/pkg/serrors"
)

const (
	// DefaultLimit is the page size used when the limit query param is absent.
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Handler exposes the authentication service over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates the HTTP handler for the authentication domain.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// UserResponse is the JSON shape of a user returned by the API.
type UserResponse struct {
	ID        domain.UserID `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
}

// NewUserResponse converts a domain user to its API shape.
func NewUserResponse(user *domain.User) UserResponse {
	out := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
	if !user.UpdatedAt.IsZero() {
		out.UpdatedAt = &user.UpdatedAt
	}

	return out
}

// TokenResponse is the JSON shape of an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

func newTokenResponse(pair *TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	}
}

// UserListResponse is a page of users.
type UserListResponse struct {
	Items      []UserResponse `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser handles POST /v1/auth/register.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	user, err := h.service.Register(ctx, RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusCreated, NewUserResponse(user))
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	pair, err := h.service.Login(ctx, req.Login, req.Password)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newTokenResponse(pair))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /v1/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	pair, err := h.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newTokenResponse(pair))
}

// Me handles GET /v1/users/me for the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		controller.Error(ctx, w, serrors.With(serrors.ErrUnauthorized, "not authenticated"))

		return
	}

	user, err := h.service.User(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewUserResponse(user))
}

// GetUser handles GET /v1/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		controller.Error(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid user id"))

		return
	}

	user, err := h.service.User(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewUserResponse(user))
}

// ListUsers handles GET /v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := uint(DefaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 || parsed > MaxLimit {
			controller.Error(ctx, w, serrors.With(serrors.ErrBadRequest,
				"limit must be between 1 and %d", MaxLimit))

			return
		}
		limit = uint(parsed)
	}

	users, nextCursor, err := h.service.Users(ctx, r.URL.Query().Get("cursor"), limit)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}

	controller.JSON(ctx, w, http.StatusOK, UserListResponse{
		Items:      items,
		NextCursor: nextCursor,
	})
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdateUser handles PATCH /v1/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		controller.Error(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid user id"))

		return
	}

	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	user, err := h.service.Update(ctx, id, UpdateInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewUserResponse(user))
}

// DeleteUser handles DELETE /v1/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		controller.Error(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid user id"))

		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusNoContent, nil)
}
