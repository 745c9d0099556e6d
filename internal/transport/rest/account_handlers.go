package rest

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/antbogura/isp-api/internal/service"
	"github.com/antbogura/isp-api/internal/transport/rest/response"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// AccountHandler exposes the privileged account workflows. It shapes the
// HTTP contract; all decisions live in the service and the domain policy.
type AccountHandler struct {
	svc        *service.AccountService
	setupToken string
}

func NewAccountHandler(svc *service.AccountService, setupToken string) *AccountHandler {
	return &AccountHandler{svc: svc, setupToken: setupToken}
}

func (h *AccountHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetUserID string `json:"targetUserId"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil || strings.TrimSpace(req.TargetUserID) == "" {
		response.Fail(w, http.StatusBadRequest, "Missing targetUserId")
		return
	}

	targetID, err := uuid.Parse(strings.TrimSpace(req.TargetUserID))
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid targetUserId")
		return
	}

	auth, ok := GetAuth(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.svc.DeleteAccount(r.Context(), auth.UserID, targetID); err != nil {
		h.writeAccountErr(w, err)
		return
	}

	response.Success(w, nil)
}

func (h *AccountHandler) CleanupOrphan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil || strings.TrimSpace(req.UserID) == "" {
		response.Fail(w, http.StatusBadRequest, "Missing userId")
		return
	}

	targetID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid userId")
		return
	}

	auth, ok := GetAuth(r.Context())
	if !ok {
		response.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.svc.DeleteOrphan(r.Context(), auth.UserID, targetID); err != nil {
		h.writeAccountErr(w, err)
		return
	}

	response.Success(w, nil)
}

// SetupAdmin bootstraps the first admin account. The endpoint is outside the
// bearer-auth group (there is no admin yet to sign in as), so when a setup
// token is configured it must match.
func (h *AccountHandler) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	if h.setupToken != "" {
		got := r.Header.Get("X-Setup-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.setupToken)) != 1 {
			response.Fail(w, http.StatusForbidden, "Invalid setup token")
			return
		}
	}

	email, err := h.svc.SetupAdmin(r.Context())
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(w, map[string]any{
		"message": "Admin user setup complete",
		"email":   email,
	})
}

// writeAccountErr maps service errors onto the wire contract: policy
// denials are 403 with the reason verbatim; everything else is a backend
// failure, 500 with the underlying message passed through.
func (h *AccountHandler) writeAccountErr(w http.ResponseWriter, err error) {
	if service.IsDenial(err) {
		response.Fail(w, http.StatusForbidden, err.Error())
		return
	}
	response.Fail(w, http.StatusInternalServerError, err.Error())
}
