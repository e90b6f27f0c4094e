// Package httpapi exposes the REST API over net/http.
package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/limiter"
	"github.com/sgubproject/listd/internal/model"
	"github.com/sgubproject/listd/internal/repository"
	"github.com/sgubproject/listd/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth      service.AuthService
	items     service.ItemService
	admin     service.AdminService
	authLimit limiter.Limiter
	log       *zap.Logger
	version   string
}

// New constructs the server with injected services.
func New(auth service.AuthService, items service.ItemService, admin service.AdminService,
	authLimit limiter.Limiter, log *zap.Logger, version string) *Server {
	return &Server{auth: auth, items: items, admin: admin, authLimit: authLimit, log: log, version: version}
}

// Handler returns the routed API wrapped in recovery and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/healthz", s.healthz)

	mux.Handle("POST /api/v1/auth/signup", s.rateLimit(s.signup))
	mux.Handle("POST /api/v1/auth/signin", s.rateLimit(s.signin))

	mux.Handle("GET /api/v1/user/me", s.requireAuth("", s.me))
	mux.Handle("PUT /api/v1/user/password", s.requireAuth("", s.changePassword))

	mux.Handle("GET /api/v1/items", s.requireAuth("", s.listItems))
	mux.Handle("POST /api/v1/items", s.requireAuth("", s.addItem))
	mux.Handle("PUT /api/v1/items", s.requireAuth("", s.updateItem))
	mux.Handle("DELETE /api/v1/items", s.requireAuth("", s.removeItem))

	mux.Handle("GET /api/v1/admin/users", s.requireAuth(model.RoleAdmin, s.adminListUsers))
	mux.Handle("POST /api/v1/admin/users", s.requireAuth(model.RoleAdmin, s.adminAddUser))
	mux.Handle("PUT /api/v1/admin/users", s.requireAuth(model.RoleAdmin, s.adminUpdateUser))
	mux.Handle("DELETE /api/v1/admin/users", s.requireAuth(model.RoleAdmin, s.adminDeleteUser))
	mux.Handle("POST /api/v1/admin/users/{id}/reset-password", s.requireAuth(model.RoleAdmin, s.adminResetPassword))
	mux.Handle("POST /api/v1/admin/users/{id}/validate", s.requireAuth(model.RoleAdmin, s.adminValidate))
	mux.Handle("POST /api/v1/admin/users/{id}/invalidate", s.requireAuth(model.RoleAdmin, s.adminInvalidate))

	return recovery(s.log, logging(s.log, mux))
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Auth ---

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.auth.Signup(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Signup submitted. Await admin validation.",
	})
}

func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	res, err := s.auth.Signin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    res.Token,
		"role":     res.Role,
		"username": res.Username,
		"version":  s.version,
	})
}

// --- User self-service ---

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, s.log, errs.New(errs.Unauthorized, "missing token"))
		return
	}
	p, err := s.auth.Profile(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":   p.Username,
		"signedUpAt": p.SignedUpAt,
	})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r.Context())
	if !ok {
		writeError(w, s.log, errs.New(errs.Unauthorized, "missing token"))
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.auth.ChangePassword(r.Context(), claims.Subject, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Items ---

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	items, err := s.items.List(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	item, truncated, err := s.items.Add(r.Context(), claims.Subject, req.Text)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if truncated {
		w.Header().Set("X-Notice", "truncated")
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	item, truncated, err := s.items.Update(r.Context(), claims.Subject, req.ID, req.Text)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	if truncated {
		w.Header().Set("X-Notice", "truncated")
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.items.Remove(r.Context(), claims.Subject, req.ID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// --- Admin ---

func (s *Server) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context())
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) adminAddUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.admin.AddUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        string  `json:"id"`
		Username  *string `json:"username"`
		Validated *bool   `json:"validated"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	user, err := s.admin.UpdateUser(r.Context(), req.ID, repository.UserUpdate{
		Username:  req.Username,
		Validated: req.Validated,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.admin.DeleteUser(r.Context(), req.ID); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) adminResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TempPassword string `json:"tempPassword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, s.log, err)
		return
	}
	if err := s.admin.ResetPassword(r.Context(), r.PathValue("id"), req.TempPassword); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) adminValidate(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.SetValidated(r.Context(), r.PathValue("id"), true); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) adminInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := s.admin.SetValidated(r.Context(), r.PathValue("id"), false); err != nil {
		writeError(w, s.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
