// Package memory holds process-local repositories used for development
// (STORE_BACKEND=memory) and as test doubles.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yoockh/volunteerhub/internal/models"
	mongorepo "github.com/yoockh/volunteerhub/internal/repositories/mongo"
	"github.com/yoockh/volunteerhub/internal/utils"
)

type VolunteerRepo struct {
	mu   sync.RWMutex
	rows map[models.VolunteerID]models.VolunteerRecord
	seq  map[models.VolunteerID]int
	next int
}

var _ mongorepo.VolunteerRepository = (*VolunteerRepo)(nil)

func NewVolunteerRepo() *VolunteerRepo {
	return &VolunteerRepo{
		rows: make(map[models.VolunteerID]models.VolunteerRecord),
		seq:  make(map[models.VolunteerID]int),
	}
}

func (r *VolunteerRepo) Create(ctx context.Context, v *models.VolunteerRecord) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[v.ID] = clone(*v)
	r.next++
	r.seq[v.ID] = r.next
	return nil
}

func (r *VolunteerRepo) GetByID(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	out := clone(v)
	return &out, nil
}

func (r *VolunteerRepo) FindByIDs(ctx context.Context, ids []models.VolunteerID) ([]models.VolunteerRecord, error) {
	want := make(map[models.VolunteerID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(v models.VolunteerRecord) bool { return want[v.ID] }), nil
}

func (r *VolunteerRepo) ListByScreened(ctx context.Context, screened bool) ([]models.VolunteerRecord, error) {
	return r.filter(func(v models.VolunteerRecord) bool { return v.IsScreened == screened }), nil
}

func (r *VolunteerRepo) MarkScreened(ctx context.Context, id models.VolunteerID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.rows[id]
	if !ok {
		return utils.ErrNotFound
	}
	v.IsScreened = true
	r.rows[id] = v
	return nil
}

func (r *VolunteerRepo) Delete(ctx context.Context, id models.VolunteerID) (*models.VolunteerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.rows[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	delete(r.rows, id)
	delete(r.seq, id)
	return &v, nil
}

func (r *VolunteerRepo) ReferencedBlobs(ctx context.Context, ids []models.BlobID) (map[models.BlobID]bool, error) {
	want := make(map[models.BlobID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[models.BlobID]bool)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.rows {
		if v.CV != nil && want[*v.CV] {
			out[*v.CV] = true
		}
	}
	return out, nil
}

// Count reports how many records are stored.
func (r *VolunteerRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *VolunteerRepo) filter(keep func(models.VolunteerRecord) bool) []models.VolunteerRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.VolunteerRecord{}
	for _, v := range r.rows {
		if keep(v) {
			out = append(out, clone(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.seq[out[i].ID] < r.seq[out[j].ID] })
	return out
}

func clone(v models.VolunteerRecord) models.VolunteerRecord {
	if v.CV != nil {
		cv := *v.CV
		v.CV = &cv
	}
	if v.Availabilities != nil {
		v.Availabilities = append(models.Availabilities{}, v.Availabilities...)
	}
	return v
}
