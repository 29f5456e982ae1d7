package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fixdesk/fixdesk/internal/api/middleware"
	"github.com/fixdesk/fixdesk/internal/api/request"
	"github.com/fixdesk/fixdesk/internal/api/response"
	"github.com/fixdesk/fixdesk/internal/domain"
	"github.com/fixdesk/fixdesk/internal/service"
	"github.com/fixdesk/fixdesk/internal/store/sqlite"
)

// UserHandler handles user operations.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) service(r *http.Request) *service.UserService {
	db := middleware.GetDB(r.Context())
	return service.NewUserService(sqlite.NewUserRepository(db), sqlite.NewAuditRepository(db))
}

// ListUsers handles GET /users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	users, total, err := h.service(r).List(r.Context(), service.ListUsersInput{
		Role:    request.ParseRole(r.URL.Query().Get("role")),
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if users == nil {
		users = []*domain.User{}
	}

	response.Paginated(w, users, pagination.Page, pagination.PerPage, total)
}

// GetUser handles GET /users/{id}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service(r).Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user)
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if rejectFields(w, req.Validate()) {
		return
	}

	user, err := h.service(r).Create(r.Context(), service.CreateUserInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	}, middleware.GetActor(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, user)
}
