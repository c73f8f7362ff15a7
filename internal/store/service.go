package store

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/pos-backoffice/internal"
	"github.com/frahmantamala/pos-backoffice/internal/core/common/validation"
	storeDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/store"
)

// RepositoryAPI returns nil, nil for missing rows. Save methods insert when ID is zero.
type RepositoryAPI interface {
	ListStores(ctx context.Context) ([]*storeDatamodel.Store, error)
	GetStore(ctx context.Context, id int64) (*storeDatamodel.Store, error)
	SaveStore(ctx context.Context, s *storeDatamodel.Store) error

	GetSettings(ctx context.Context, storeID int64) (*storeDatamodel.Settings, error)
	UpsertSettings(ctx context.Context, s *storeDatamodel.Settings) error

	ListDevices(ctx context.Context, storeID *int64) ([]*storeDatamodel.PosDevice, error)
	GetDevice(ctx context.Context, id int64) (*storeDatamodel.PosDevice, error)
	SaveDevice(ctx context.Context, d *storeDatamodel.PosDevice) error
	DeactivateDevice(ctx context.Context, id int64) error

	ListDiningOptions(ctx context.Context, storeID *int64) ([]*storeDatamodel.DiningOption, error)
	GetDiningOption(ctx context.Context, id int64) (*storeDatamodel.DiningOption, error)
	SaveDiningOption(ctx context.Context, d *storeDatamodel.DiningOption) error
	DeactivateDiningOption(ctx context.Context, id int64) error

	ListKitchenQueues(ctx context.Context, storeID *int64) ([]*storeDatamodel.KitchenQueue, error)
	GetKitchenQueue(ctx context.Context, id int64) (*storeDatamodel.KitchenQueue, error)
	SaveKitchenQueue(ctx context.Context, q *storeDatamodel.KitchenQueue) error
	DeactivateKitchenQueue(ctx context.Context, id int64) error
}

var (
	ErrStoreNotFound    = internal.NewNotFoundError("store not found", internal.ErrCodeStoreNotFound)
	ErrResourceNotFound = internal.NewNotFoundError("store resource not found", internal.ErrCodeStoreResourceNotFound)
	ErrDuplicate        = internal.NewConflictError("a record with this name or code already exists", internal.ErrCodeDuplicateKey)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) internalErr(op string, err error) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("store operation failed", "op", op, "error", err)
	return internal.NewInternalError("failed to "+op, err)
}

func (s *Service) requireStore(ctx context.Context, id int64) (*storeDatamodel.Store, error) {
	row, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, s.internalErr("load store", err)
	}
	if row == nil {
		return nil, ErrStoreNotFound
	}
	return row, nil
}

// storeRef is requireStore for payload fields: an unknown store is a 400, not a 404.
func (s *Service) storeRef(ctx context.Context, id int64) error {
	row, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return s.internalErr("load store", err)
	}
	if row == nil {
		return internal.NewValidationFieldError("storeId", "store does not exist", internal.ErrCodeInvalidRequest)
	}
	return nil
}

// ----------------- STORES -----------------

func (s *Service) ListStores(ctx context.Context) ([]*Store, error) {
	rows, err := s.repo.ListStores(ctx)
	if err != nil {
		return nil, s.internalErr("list stores", err)
	}
	out := make([]*Store, 0, len(rows))
	for _, row := range rows {
		out = append(out, StoreFromDataModel(row))
	}
	return out, nil
}

func (s *Service) GetStore(ctx context.Context, id int64) (*Store, error) {
	row, err := s.requireStore(ctx, id)
	if err != nil {
		return nil, err
	}
	return StoreFromDataModel(row), nil
}

func (s *Service) CreateStore(ctx context.Context, dto StoreDTO) (*Store, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	row := &storeDatamodel.Store{Name: dto.Name, Address: dto.Address, Phone: dto.Phone, IsActive: true}
	if err := s.repo.SaveStore(ctx, row); err != nil {
		return nil, s.internalErr("create store", err)
	}
	s.logger.Info("store created", "store_id", row.ID)
	return StoreFromDataModel(row), nil
}

func (s *Service) UpdateStore(ctx context.Context, id int64, dto StoreDTO) (*Store, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	row, err := s.requireStore(ctx, id)
	if err != nil {
		return nil, err
	}
	row.Name = dto.Name
	row.Address = dto.Address
	row.Phone = dto.Phone
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.SaveStore(ctx, row); err != nil {
		return nil, s.internalErr("update store", err)
	}
	return StoreFromDataModel(row), nil
}

// ----------------- SETTINGS -----------------

func (s *Service) GetSettings(ctx context.Context, storeID int64) (*Settings, error) {
	if _, err := s.requireStore(ctx, storeID); err != nil {
		return nil, err
	}
	row, err := s.repo.GetSettings(ctx, storeID)
	if err != nil {
		return nil, s.internalErr("load store settings", err)
	}
	if row == nil {
		return DefaultSettings(storeID), nil
	}
	return SettingsFromDataModel(row), nil
}

func (s *Service) UpdateSettings(ctx context.Context, storeID int64, dto SettingsDTO) (*Settings, error) {
	dto.Currency = strings.ToUpper(strings.TrimSpace(dto.Currency))
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if _, err := s.requireStore(ctx, storeID); err != nil {
		return nil, err
	}
	timezone := dto.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	row := &storeDatamodel.Settings{
		StoreID:       storeID,
		Currency:      dto.Currency,
		Timezone:      timezone,
		ReceiptHeader: dto.ReceiptHeader,
		ReceiptFooter: dto.ReceiptFooter,
		LogoURL:       dto.LogoURL,
		TaxInclusive:  dto.TaxInclusive,
	}
	if err := s.repo.UpsertSettings(ctx, row); err != nil {
		return nil, s.internalErr("save store settings", err)
	}
	s.logger.Info("store settings saved", "store_id", storeID)
	return SettingsFromDataModel(row), nil
}

// ----------------- POS DEVICES -----------------

func (s *Service) ListDevices(ctx context.Context, storeID *int64) ([]*PosDevice, error) {
	rows, err := s.repo.ListDevices(ctx, storeID)
	if err != nil {
		return nil, s.internalErr("list pos devices", err)
	}
	out := make([]*PosDevice, 0, len(rows))
	for _, row := range rows {
		out = append(out, DeviceFromDataModel(row))
	}
	return out, nil
}

func (s *Service) SaveDevice(ctx context.Context, id int64, dto PosDeviceDTO) (*PosDevice, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.storeRef(ctx, dto.StoreID); err != nil {
		return nil, err
	}

	row := &storeDatamodel.PosDevice{IsActive: true}
	if id != 0 {
		existing, err := s.repo.GetDevice(ctx, id)
		if err != nil {
			return nil, s.internalErr("load pos device", err)
		}
		if existing == nil {
			return nil, ErrResourceNotFound
		}
		row = existing
	}
	row.StoreID = dto.StoreID
	row.Name = dto.Name
	row.DeviceCode = dto.DeviceCode
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.SaveDevice(ctx, row); err != nil {
		return nil, s.internalErr("save pos device", err)
	}
	return DeviceFromDataModel(row), nil
}

func (s *Service) DeleteDevice(ctx context.Context, id int64) error {
	row, err := s.repo.GetDevice(ctx, id)
	if err != nil {
		return s.internalErr("load pos device", err)
	}
	if row == nil {
		return ErrResourceNotFound
	}
	if err := s.repo.DeactivateDevice(ctx, id); err != nil {
		return s.internalErr("delete pos device", err)
	}
	return nil
}

// ----------------- DINING OPTIONS -----------------

func (s *Service) ListDiningOptions(ctx context.Context, storeID *int64) ([]*DiningOption, error) {
	rows, err := s.repo.ListDiningOptions(ctx, storeID)
	if err != nil {
		return nil, s.internalErr("list dining options", err)
	}
	out := make([]*DiningOption, 0, len(rows))
	for _, row := range rows {
		out = append(out, DiningOptionFromDataModel(row))
	}
	return out, nil
}

func (s *Service) SaveDiningOption(ctx context.Context, id int64, dto DiningOptionDTO) (*DiningOption, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.storeRef(ctx, dto.StoreID); err != nil {
		return nil, err
	}

	row := &storeDatamodel.DiningOption{IsActive: true}
	if id != 0 {
		existing, err := s.repo.GetDiningOption(ctx, id)
		if err != nil {
			return nil, s.internalErr("load dining option", err)
		}
		if existing == nil {
			return nil, ErrResourceNotFound
		}
		row = existing
	}
	row.StoreID = dto.StoreID
	row.Name = dto.Name
	row.IsDefault = dto.IsDefault
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.SaveDiningOption(ctx, row); err != nil {
		return nil, s.internalErr("save dining option", err)
	}
	return DiningOptionFromDataModel(row), nil
}

func (s *Service) DeleteDiningOption(ctx context.Context, id int64) error {
	row, err := s.repo.GetDiningOption(ctx, id)
	if err != nil {
		return s.internalErr("load dining option", err)
	}
	if row == nil {
		return ErrResourceNotFound
	}
	if err := s.repo.DeactivateDiningOption(ctx, id); err != nil {
		return s.internalErr("delete dining option", err)
	}
	return nil
}

// ----------------- KITCHEN QUEUES -----------------

func (s *Service) ListKitchenQueues(ctx context.Context, storeID *int64) ([]*KitchenQueue, error) {
	rows, err := s.repo.ListKitchenQueues(ctx, storeID)
	if err != nil {
		return nil, s.internalErr("list kitchen queues", err)
	}
	out := make([]*KitchenQueue, 0, len(rows))
	for _, row := range rows {
		out = append(out, KitchenQueueFromDataModel(row))
	}
	return out, nil
}

func (s *Service) SaveKitchenQueue(ctx context.Context, id int64, dto KitchenQueueDTO) (*KitchenQueue, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	if err := validation.Struct(dto); err != nil {
		return nil, err
	}
	if err := s.storeRef(ctx, dto.StoreID); err != nil {
		return nil, err
	}

	row := &storeDatamodel.KitchenQueue{IsActive: true}
	if id != 0 {
		existing, err := s.repo.GetKitchenQueue(ctx, id)
		if err != nil {
			return nil, s.internalErr("load kitchen queue", err)
		}
		if existing == nil {
			return nil, ErrResourceNotFound
		}
		row = existing
	}
	row.StoreID = dto.StoreID
	row.Name = dto.Name
	row.CategoryIDs = dto.CategoryIDs
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}
	if err := s.repo.SaveKitchenQueue(ctx, row); err != nil {
		return nil, s.internalErr("save kitchen queue", err)
	}
	return KitchenQueueFromDataModel(row), nil
}

func (s *Service) DeleteKitchenQueue(ctx context.Context, id int64) error {
	row, err := s.repo.GetKitchenQueue(ctx, id)
	if err != nil {
		return s.internalErr("load kitchen queue", err)
	}
	if row == nil {
		return ErrResourceNotFound
	}
	if err := s.repo.DeactivateKitchenQueue(ctx, id); err != nil {
		return s.internalErr("delete kitchen queue", err)
	}
	return nil
}
