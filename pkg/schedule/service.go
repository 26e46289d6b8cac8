package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/scrollcal/scrollcal/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	// Load replaces the in-memory sequence with the persisted one. Unreadable storage yields an empty sequence.
	Load(ctx context.Context)
	List() []Record
	Add(ctx context.Context, date string, name string) (Record, error)
	Delete(ctx context.Context, index int) error
	Clear(ctx context.Context, confirmed bool) error
}

// ServiceImpl holds the schedule sequence sorted ascending by date and rewrites it in full on every mutation.
type ServiceImpl struct {
	mu       sync.Mutex
	repo     Repository
	eventBus *event_bus.EventBus
	records  []Record
	// loaded is set once records reflect storage, by Load or by the first mutation.
	loaded   bool
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		eventBus: eventBus,
		records:  []Record{},
	}
}

func (s *ServiceImpl) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrCorruptData) {
			log.Errorf("stored schedules are corrupt, starting with an empty list: %v", err)
		} else {
			log.Errorf("failed to load schedules, starting with an empty list: %v", err)
		}
		s.records = []Record{}
		s.loaded = true
		return
	}
	s.records = records
	s.loaded = true
	log.Infof("Loaded %d schedules", len(records))
}

// ensureLoaded reads storage before the first mutation so a save never overwrites records it has not seen.
// Corrupt data is replaced, any other failure aborts the mutation. Callers hold s.mu.
func (s *ServiceImpl) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	records, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptData) {
			return fmt.Errorf("failed to load schedules: %w", err)
		}
		log.Errorf("stored schedules are corrupt, starting with an empty list: %v", err)
		records = []Record{}
	}
	s.records = records
	s.loaded = true
	return nil
}

func (s *ServiceImpl) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

func (s *ServiceImpl) Add(ctx context.Context, date string, name string) (Record, error) {
	date = strings.TrimSpace(date)
	name = strings.TrimSpace(name)
	if date == "" {
		return Record{}, ErrDateRequired
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Record{}, ErrInvalidDate
	}
	if name == "" {
		return Record{}, ErrNameRequired
	}

	record := Record{Date: date, Name: name}
	count, err := s.mutate(ctx, func(current []Record) ([]Record, error) {
		next := make([]Record, 0, len(current)+1)
		next = append(next, current...)
		next = append(next, record)
		sortByDate(next)
		return next, nil
	})
	if err != nil {
		return Record{}, err
	}
	s.publish(ctx, event_bus.ScheduleAdded, count)
	return record, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, index int) error {
	count, err := s.mutate(ctx, func(current []Record) ([]Record, error) {
		if index < 0 || index >= len(current) {
			log.Debugf("ignoring delete of schedule %d, list holds %d", index, len(current))
			return nil, ErrRecordNotFound
		}
		next := make([]Record, 0, len(current)-1)
		next = append(next, current[:index]...)
		next = append(next, current[index+1:]...)
		return next, nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, event_bus.ScheduleDeleted, count)
	return nil
}

func (s *ServiceImpl) Clear(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	count, err := s.mutate(ctx, func(current []Record) ([]Record, error) {
		return []Record{}, nil
	})
	if err != nil {
		return err
	}
	s.publish(ctx, event_bus.ScheduleCleared, count)
	return nil
}

// mutate derives the next sequence from the current one, persists it, and only then makes it current.
// A failed save leaves the current sequence untouched.
func (s *ServiceImpl) mutate(ctx context.Context, change func(current []Record) ([]Record, error)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		log.Errorf("refusing to modify schedules: %v", err)
		return 0, err
	}
	next, err := change(s.records)
	if err != nil {
		return 0, err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		log.Errorf("failed to persist schedules: %v", err)
		return 0, fmt.Errorf("failed to persist schedules: %w", err)
	}
	s.records = next
	return len(next), nil
}

// publish runs outside the lock: subscribers read the sequence back through List.
func (s *ServiceImpl) publish(ctx context.Context, operation event_bus.ScheduleOperation, count int) {
	if s.eventBus == nil {
		return
	}
	event := event_bus.NewEvent(ctx, event_bus.ScheduleChangedEvent, event_bus.ScheduleChanged{
		Operation: operation,
		Count:     count,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Errorf("failed to publish schedule change: %v", err)
	}
}

// sortByDate orders records ascending by date; records on the same date keep their relative order.
func sortByDate(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}
