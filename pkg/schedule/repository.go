package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scrollcal/scrollcal/internal/kvstore"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Load returns the persisted sequence. A never written slot is an empty sequence.
	Load(ctx context.Context) ([]Record, error)
	// Save overwrites the persisted sequence with records.
	Save(ctx context.Context, records []Record) error
}

// repositoryImpl keeps the whole sequence as one JSON array in a single key-value slot.
type repositoryImpl struct {
	store kvstore.Store
	key   string
}

func NewRepo(store kvstore.Store, key string) Repository {
	return &repositoryImpl{store: store, key: key}
}

func (r *repositoryImpl) Load(ctx context.Context) ([]Record, error) {
	value, found, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("could not read schedules: %w", err)
	}
	if !found || value == "" {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal([]byte(value), &records); err != nil {
		log.Errorf("failed to decode schedules from slot %s: %v", r.key, err)
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func (r *repositoryImpl) Save(ctx context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("could not encode schedules: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return fmt.Errorf("could not write schedules: %w", err)
	}
	return nil
}
