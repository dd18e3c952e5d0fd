package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/model"
)

// MemoryAdminRepository is a process-local admin store used with STORAGE_DRIVER=memory
// and in tests. It honours the same contract as AdminRepository.
type MemoryAdminRepository struct {
	mu     sync.RWMutex
	nextID int
	admins map[string]model.Admin
}

// NewMemoryAdminRepository creates an empty MemoryAdminRepository.
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{admins: make(map[string]model.Admin)}
}

func (r *MemoryAdminRepository) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.admins[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *MemoryAdminRepository) Insert(_ context.Context, username, passwordHash string) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[username]; ok {
		return nil, ErrDuplicate
	}
	r.nextID++
	now := time.Now().UTC()
	a := model.Admin{
		ID:           r.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.admins[username] = a
	return &a, nil
}

func (r *MemoryAdminRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[username]; !ok {
		return ErrNotFound
	}
	delete(r.admins, username)
	return nil
}

func (r *MemoryAdminRepository) UpdatePasswordHash(_ context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[username]
	if !ok {
		return ErrNotFound
	}
	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now().UTC()
	r.admins[username] = a
	return nil
}

func (r *MemoryAdminRepository) ListAllExceptSuperadmin(_ context.Context, superadmin string) ([]model.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	admins := make([]model.Admin, 0, len(r.admins))
	for name, a := range r.admins {
		if name != superadmin {
			admins = append(admins, a)
		}
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].ID < admins[j].ID })
	return admins, nil
}

// MemoryVehicleRepository is the in-process counterpart of VehicleRepository.
type MemoryVehicleRepository struct {
	mu       sync.RWMutex
	nextID   int
	vehicles map[int]model.Vehicle
}

// NewMemoryVehicleRepository creates an empty MemoryVehicleRepository.
func NewMemoryVehicleRepository() *MemoryVehicleRepository {
	return &MemoryVehicleRepository{vehicles: make(map[int]model.Vehicle)}
}

func (r *MemoryVehicleRepository) List(_ context.Context, f model.VehicleFilter) ([]model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Vehicle{}
	for _, v := range r.vehicles {
		if matches(v, f) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func matches(v model.Vehicle, f model.VehicleFilter) bool {
	if f.Category != "" && !strings.EqualFold(v.Category, f.Category) {
		return false
	}
	if f.Condition != "" && !strings.EqualFold(v.Condition, f.Condition) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(v.Brand, f.Brand) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(v.Brand), q) && !strings.Contains(strings.ToLower(v.Model), q) {
			return false
		}
	}
	return true
}

func (r *MemoryVehicleRepository) GetByID(_ context.Context, id int) (*model.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (r *MemoryVehicleRepository) Create(_ context.Context, v *model.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	v.ID = r.nextID
	v.CreatedAt = time.Now().UTC()
	if v.Images == nil {
		v.Images = []string{}
	}
	r.vehicles[v.ID] = *v
	return nil
}

func (r *MemoryVehicleRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(r.vehicles, id)
	return nil
}
