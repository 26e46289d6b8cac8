package schedule

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu      sync.Mutex
	records []Record
	saves   int
	loadErr error
	saveErr error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) Load(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	result := make([]Record, len(r.records))
	copy(result, r.records)
	return result, nil
}

func (r *RepositoryStub) Save(ctx context.Context, records []Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records = make([]Record, len(records))
	copy(r.records, records)
	r.saves++
	return nil
}

func (r *RepositoryStub) SetRecords(records []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = records
}

func (r *RepositoryStub) SetLoadError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

func (r *RepositoryStub) SetSaveError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// Saves returns how many times Save succeeded.
func (r *RepositoryStub) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.saves = 0
	r.loadErr = nil
	r.saveErr = nil
}
