package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/usersignup/internal/middleware"
	"github.com/hitoshi/usersignup/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Signup は座標を検証してユーザーを登録する。
	Signup(ctx context.Context, req model.SignupRequest) (*model.User, error)
	// FindUser は指定IDのユーザーを取得する。
	FindUser(ctx context.Context, id int64) (*model.User, error)
}

// UserHandler はユーザー登録と参照のHTTPハンドラー。
type UserHandler struct {
	service   UserServiceInterface
	sanitizer NameSanitizer
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, sanitizer NameSanitizer) *UserHandler {
	return &UserHandler{
		service:   service,
		sanitizer: sanitizer,
	}
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		City:  u.City,
		State: u.State,
	}
}

// Signup はサインアップを処理する。
// POST /user/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	body, err := decodeSignupRequest(r.Body)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	req, err := body.validate(h.sanitizer)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	user, err := h.service.Signup(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// GetUser はユーザー情報を取得する。
// GET /user/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("id must be a positive integer"))
		return
	}

	user, err := h.service.FindUser(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
