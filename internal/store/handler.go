package store

import (
	"context"
	"net/http"

	"github.com/frahmantamala/pos-backoffice/internal/transport"
)

type ServiceAPI interface {
	ListStores(ctx context.Context) ([]*Store, error)
	GetStore(ctx context.Context, id int64) (*Store, error)
	CreateStore(ctx context.Context, dto StoreDTO) (*Store, error)
	UpdateStore(ctx context.Context, id int64, dto StoreDTO) (*Store, error)
	GetSettings(ctx context.Context, storeID int64) (*Settings, error)
	UpdateSettings(ctx context.Context, storeID int64, dto SettingsDTO) (*Settings, error)

	ListDevices(ctx context.Context, storeID *int64) ([]*PosDevice, error)
	SaveDevice(ctx context.Context, id int64, dto PosDeviceDTO) (*PosDevice, error)
	DeleteDevice(ctx context.Context, id int64) error

	ListDiningOptions(ctx context.Context, storeID *int64) ([]*DiningOption, error)
	SaveDiningOption(ctx context.Context, id int64, dto DiningOptionDTO) (*DiningOption, error)
	DeleteDiningOption(ctx context.Context, id int64) error

	ListKitchenQueues(ctx context.Context, storeID *int64) ([]*KitchenQueue, error)
	SaveKitchenQueue(ctx context.Context, id int64, dto KitchenQueueDTO) (*KitchenQueue, error)
	DeleteKitchenQueue(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{BaseHandler: baseHandler, Service: service}
}

// respond writes v with status, or maps err.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}, err error) {
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, status, v)
}

// writeStatus is 201 for inserts (id == 0) and 200 for updates.
func writeStatus(id int64) int {
	if id == 0 {
		return http.StatusCreated
	}
	return http.StatusOK
}

// optionalID reads {id} on update routes and returns 0 on create routes.
func (h *Handler) optionalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if r.Method == http.MethodPost {
		return 0, true
	}
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return 0, false
	}
	return id, true
}

func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Service.ListStores(r.Context())
	h.respond(w, r, http.StatusOK, stores, err)
}

func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	s, err := h.Service.GetStore(r.Context(), id)
	h.respond(w, r, http.StatusOK, s, err)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var dto StoreDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	s, err := h.Service.CreateStore(r.Context(), dto)
	h.respond(w, r, http.StatusCreated, s, err)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto StoreDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	s, err := h.Service.UpdateStore(r.Context(), id, dto)
	h.respond(w, r, http.StatusOK, s, err)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	s, err := h.Service.GetSettings(r.Context(), id)
	h.respond(w, r, http.StatusOK, s, err)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto SettingsDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	s, err := h.Service.UpdateSettings(r.Context(), id, dto)
	h.respond(w, r, http.StatusOK, s, err)
}

func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.Service.ListDevices(r.Context(), transport.QueryInt64(r, "store"))
	h.respond(w, r, http.StatusOK, devices, err)
}

// SaveDevice serves both POST /pos-devices and PUT /pos-devices/{id}.
func (h *Handler) SaveDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := h.optionalID(w, r)
	if !ok {
		return
	}
	var dto PosDeviceDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	d, err := h.Service.SaveDevice(r.Context(), id, dto)
	h.respond(w, r, writeStatus(id), d, err)
}

func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteDevice)
}

func (h *Handler) ListDiningOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Service.ListDiningOptions(r.Context(), transport.QueryInt64(r, "store"))
	h.respond(w, r, http.StatusOK, options, err)
}

func (h *Handler) SaveDiningOption(w http.ResponseWriter, r *http.Request) {
	id, ok := h.optionalID(w, r)
	if !ok {
		return
	}
	var dto DiningOptionDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	d, err := h.Service.SaveDiningOption(r.Context(), id, dto)
	h.respond(w, r, writeStatus(id), d, err)
}

func (h *Handler) DeleteDiningOption(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteDiningOption)
}

func (h *Handler) ListKitchenQueues(w http.ResponseWriter, r *http.Request) {
	queues, err := h.Service.ListKitchenQueues(r.Context(), transport.QueryInt64(r, "store"))
	h.respond(w, r, http.StatusOK, queues, err)
}

func (h *Handler) SaveKitchenQueue(w http.ResponseWriter, r *http.Request) {
	id, ok := h.optionalID(w, r)
	if !ok {
		return
	}
	var dto KitchenQueueDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	q, err := h.Service.SaveKitchenQueue(r.Context(), id, dto)
	h.respond(w, r, writeStatus(id), q, err)
}

func (h *Handler) DeleteKitchenQueue(w http.ResponseWriter, r *http.Request) {
	h.deleteByID(w, r, h.Service.DeleteKitchenQueue)
}

func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error) {
	id, appErr := h.ParseIDParam(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
