package generatedresumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	nextID  int64
	resumes map[int64]GeneratedResume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[int64]GeneratedResume)}
}

func (r *MemoryRepo) Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedResume{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	resume.ID = r.nextID
	if resume.CreatedAt.IsZero() {
		resume.CreatedAt = time.Now().UTC()
	}
	r.resumes[resume.ID] = resume
	return resume, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, resumeID int64) (GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return GeneratedResume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.resumes[resumeID]
	if !ok {
		return GeneratedResume{}, ErrNotFound
	}
	return resume, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]GeneratedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []GeneratedResume
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) SetPDFKey(ctx context.Context, resumeID int64, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.resumes[resumeID]
	if !ok {
		return ErrNotFound
	}
	resume.PDFKey = &key
	r.resumes[resumeID] = resume
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
