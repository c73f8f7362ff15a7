package shift

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-backoffice/internal/permission"
	"github.com/frahmantamala/pos-backoffice/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Shift, error)
	Current(ctx context.Context, userID int64) (*Shift, error)
	Start(ctx context.Context, userID int64, dto StartShiftDTO) (*Shift, error)
	End(ctx context.Context, callerID int64, canManage bool, id int64, dto EndShiftDTO) (*Shift, error)
}

// PermissionChecker is satisfied by *permission.Evaluator.
type PermissionChecker interface {
	Allowed(ctx context.Context, role string, p permission.Permission) bool
}

type Handler struct {
	*transport.BaseHandler
	Service     ServiceAPI
	Permissions PermissionChecker
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, perms PermissionChecker) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Permissions: perms,
	}
}

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		StoreID:    transport.QueryInt64(r, "store"),
		UserID:     transport.QueryInt64(r, "employee"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	shifts, err := h.Service.List(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, shifts)
}

func (h *Handler) CurrentShift(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}
	s, err := h.Service.Current(r.Context(), principal.UserID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) StartShift(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}
	var dto StartShiftDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	s, err := h.Service.Start(r.Context(), principal.UserID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, s)
}

func (h *Handler) EndShift(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.Principal(w, r)
	if !ok {
		return
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto EndShiftDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	canManage := h.Permissions != nil && h.Permissions.Allowed(r.Context(), principal.Role, permission.CanManageUsers)
	s, err := h.Service.End(r.Context(), principal.UserID, canManage, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, s)
}
