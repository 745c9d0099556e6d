package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/service"
	"github.com/antbogura/isp-api/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// IntakeHandler covers the public forms and the admin triage views.
type IntakeHandler struct {
	svc *service.IntakeService
}

func NewIntakeHandler(svc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{svc: svc}
}

func (h *IntakeHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Phone   string  `json:"phone"`
		Email   *string `json:"email"`
		Message string  `json:"message"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Phone == "" || req.Message == "" {
		response.Fail(w, http.StatusBadRequest, "name, phone and message are required")
		return
	}

	m := domain.ContactMessage{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,
	}
	if err := h.svc.SubmitContactMessage(r.Context(), &m); err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(w, map[string]any{"id": m.ID})
}

func (h *IntakeHandler) SubmitProblem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Phone       string  `json:"phone"`
		CustomerID  *string `json:"customerId"`
		ProblemType string  `json:"problemType"`
		Description string  `json:"description"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.ProblemType = strings.TrimSpace(req.ProblemType)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" || req.Phone == "" || req.ProblemType == "" || req.Description == "" {
		response.Fail(w, http.StatusBadRequest, "name, phone, problemType and description are required")
		return
	}

	p := domain.ProblemReport{
		Name:        req.Name,
		Phone:       req.Phone,
		CustomerID:  req.CustomerID,
		ProblemType: req.ProblemType,
		Description: req.Description,
	}
	if err := h.svc.SubmitProblemReport(r.Context(), &p); err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(w, map[string]any{"id": p.ID})
}

func (h *IntakeHandler) SubmitConnectionRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		PackageName string `json:"packageName"`
	}
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Address = strings.TrimSpace(req.Address)
	req.PackageName = strings.TrimSpace(req.PackageName)
	if req.Name == "" || req.Phone == "" || req.Address == "" || req.PackageName == "" {
		response.Fail(w, http.StatusBadRequest, "name, phone, address and packageName are required")
		return
	}
	if !domain.ValidPackageName(req.PackageName) {
		response.Fail(w, http.StatusBadRequest, "unknown package")
		return
	}

	c := domain.ConnectionRequest{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		PackageName: req.PackageName,
	}
	if err := h.svc.SubmitConnectionRequest(r.Context(), &c); err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(w, map[string]any{"id": c.ID})
}

// statusFilter parses the optional ?status= query param.
func statusFilter(r *http.Request) (*domain.RequestStatus, bool) {
	s := strings.TrimSpace(r.URL.Query().Get("status"))
	if s == "" {
		return nil, true
	}
	st := domain.RequestStatus(s)
	if !st.Valid() {
		return nil, false
	}
	return &st, true
}

func listLimit(r *http.Request) int {
	s := strings.TrimSpace(r.URL.Query().Get("limit"))
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func (h *IntakeHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := h.svc.ListContactMessages(r.Context(), status, listLimit(r))
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, map[string]any{"messages": items, "count": len(items)})
}

func (h *IntakeHandler) ListProblemReports(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := h.svc.ListProblemReports(r.Context(), status, listLimit(r))
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, map[string]any{"reports": items, "count": len(items)})
}

func (h *IntakeHandler) ListConnectionRequests(w http.ResponseWriter, r *http.Request) {
	status, ok := statusFilter(r)
	if !ok {
		response.Fail(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	items, err := h.svc.ListConnectionRequests(r.Context(), status, listLimit(r))
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, map[string]any{"requests": items, "count": len(items)})
}

// updateStatus backs the PATCH .../{id}/status routes; table is fixed by the
// route that registered it.
func (h *IntakeHandler) updateStatus(table string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			response.Fail(w, http.StatusBadRequest, "invalid id")
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			response.Fail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		status := domain.RequestStatus(strings.TrimSpace(req.Status))
		if !status.Valid() {
			response.Fail(w, http.StatusBadRequest, "invalid status")
			return
		}

		auth, _ := GetAuth(r.Context())
		if err := h.svc.UpdateStatus(r.Context(), table, id, status, auth.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.Fail(w, http.StatusNotFound, "record not found")
				return
			}
			response.Fail(w, http.StatusInternalServerError, err.Error())
			return
		}

		response.Success(w, nil)
	}
}

func (h *IntakeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		response.Fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(w, map[string]any{"stats": stats})
}

// Catalog endpoints: static marketing data.

func (h *IntakeHandler) Packages(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{"packages": domain.Packages})
}

func (h *IntakeHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	response.Success(w, map[string]any{"coverage": domain.Coverage})
}
