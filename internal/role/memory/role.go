package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/frahmantamala/pos-backoffice/internal"
	roleDatamodel "github.com/frahmantamala/pos-backoffice/internal/core/datamodel/role"
	"github.com/frahmantamala/pos-backoffice/internal/role"
)

// Repository is an in-process role store. Each instance is independent; nothing is global.
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	byID     map[int64]*roleDatamodel.Role
	assigned map[string]int64
	failWith error
}

func NewRepository() *Repository {
	return &Repository{
		byID:     make(map[int64]*roleDatamodel.Role),
		assigned: make(map[string]int64),
	}
}

var _ role.RepositoryAPI = (*Repository)(nil)

// SetShouldFail makes every call return err until it is called again with nil.
func (m *Repository) SetShouldFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Assign records how many active users hold name; the store has no user table of its own.
func (m *Repository) Assign(name string, activeUsers int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assigned[name] = activeUsers
}

func clone(r *roleDatamodel.Role) *roleDatamodel.Role {
	cp := *r
	return &cp
}

func (m *Repository) List(_ context.Context) ([]*roleDatamodel.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}

	out := make([]*roleDatamodel.Role, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, clone(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Repository) GetByID(_ context.Context, id int64) (*roleDatamodel.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if r, ok := m.byID[id]; ok {
		return clone(r), nil
	}
	return nil, nil
}

func (m *Repository) GetByName(_ context.Context, name string) (*roleDatamodel.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, r := range m.byID {
		if r.Name == name {
			return clone(r), nil
		}
	}
	return nil, nil
}

func (m *Repository) nameTaken(name string, exceptID int64) bool {
	for id, r := range m.byID {
		if r.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (m *Repository) Create(_ context.Context, r *roleDatamodel.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if m.nameTaken(r.Name, 0) {
		return internal.NewConflictError("role name already exists", internal.ErrCodeRoleExists)
	}

	m.nextID++
	now := time.Now()
	r.ID = m.nextID
	r.CreatedAt = now
	r.UpdatedAt = now
	m.byID[r.ID] = clone(r)
	return nil
}

func (m *Repository) Update(_ context.Context, r *roleDatamodel.Role, previousName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.byID[r.ID]; !ok {
		return internal.NewNotFoundError("role not found", internal.ErrCodeRoleNotFound)
	}
	if m.nameTaken(r.Name, r.ID) {
		return internal.NewConflictError("role name already exists", internal.ErrCodeRoleExists)
	}

	r.UpdatedAt = time.Now()
	m.byID[r.ID] = clone(r)
	if previousName != "" && previousName != r.Name {
		m.assigned[r.Name] += m.assigned[previousName]
		delete(m.assigned, previousName)
	}
	return nil
}

func (m *Repository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if r, ok := m.byID[id]; ok && !r.IsSystem {
		delete(m.byID, id)
	}
	return nil
}

func (m *Repository) CountActiveUsers(_ context.Context, name string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	return m.assigned[name], nil
}

// Seed stores a row as-is, system flag included; used to stage fixtures.
func (m *Repository) Seed(r *roleDatamodel.Role) *roleDatamodel.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.byID[r.ID] = clone(r)
	return clone(r)
}
