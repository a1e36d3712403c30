package healthlog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/karimata/healthbook/internal/storage/kv"
)

// Collection is one log list persisted under a single key, mutated with
// the read-full-list, modify, write-back discipline the storage layout
// assumes. A mutex keeps one logical writer per collection.
type Collection[T any] struct {
	kv  *kv.Store
	key string

	id       func(*T) string
	setID    func(*T, string)
	when     func(*T) time.Time
	validate func(*T) error

	mu sync.Mutex
}

// List returns the collection, most recent first.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load(ctx)
}

// Add validates the record, assigns a fresh id and appends it.
func (c *Collection[T]) Add(ctx context.Context, rec T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if err := c.validate(&rec); err != nil {
		return zero, err
	}

	recs, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	c.setID(&rec, uuid.NewString())
	recs = append(recs, rec)
	if err := c.save(ctx, recs); err != nil {
		return zero, err
	}
	return rec, nil
}

// Update replaces the record with the same id. ErrNotFound if absent.
func (c *Collection[T]) Update(ctx context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.validate(&rec); err != nil {
		return err
	}

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}

	for i := range recs {
		if c.id(&recs[i]) == c.id(&rec) {
			recs[i] = rec
			return c.save(ctx, recs)
		}
	}
	return ErrNotFound
}

// Replace updates the record stored under id with rec's fields.
func (c *Collection[T]) Replace(ctx context.Context, id string, rec T) error {
	c.setID(&rec, id)
	return c.Update(ctx, rec)
}

// Delete removes the record; unknown ids are silently ignored.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}

	for i := range recs {
		if c.id(&recs[i]) == id {
			recs = append(recs[:i], recs[i+1:]...)
			return c.save(ctx, recs)
		}
	}
	return nil
}

// Restore merges backup records by id: replace on match, append otherwise.
// Restoring the same backup twice yields no duplicates.
func (c *Collection[T]) Restore(ctx context.Context, incoming []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}

	for _, in := range incoming {
		in := in
		replaced := false
		for i := range recs {
			if c.id(&recs[i]) == c.id(&in) {
				recs[i] = in
				replaced = true
				break
			}
		}
		if !replaced {
			recs = append(recs, in)
		}
	}
	return c.save(ctx, recs)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	var recs []T
	if _, err := c.kv.Load(ctx, c.key, &recs); err != nil {
		return nil, fmt.Errorf("healthlog - Collection.load - kv.Load: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return c.when(&recs[i]).After(c.when(&recs[j]))
	})
	return recs, nil
}

func (c *Collection[T]) save(ctx context.Context, recs []T) error {
	if err := c.kv.Save(ctx, c.key, recs); err != nil {
		return fmt.Errorf("healthlog - Collection.save - kv.Save: %w", err)
	}
	return nil
}

// Service bundles every log collection.
type Service struct {
	Health        *Collection[HealthLog]
	Medication    *Collection[MedicationLog]
	BloodPressure *Collection[BloodPressureLog]
	Weight        *Collection[WeightLog]
	BloodSugar    *Collection[BloodSugarLog]
	Temperature   *Collection[TemperatureLog]
	Visit         *Collection[VisitLog]
}

// NewService -.
func NewService(store *kv.Store) *Service {
	return &Service{
		Health: &Collection[HealthLog]{
			kv: store, key: HealthKey,
			id:    func(r *HealthLog) string { return r.ID },
			setID: func(r *HealthLog, id string) { r.ID = id },
			when:  func(r *HealthLog) time.Time { return r.Time },
			validate: func(r *HealthLog) error {
				if r.ConditionRating < 1 || r.ConditionRating > 5 {
					return &ValidationError{Field: "conditionRating", Reason: "must be between 1 and 5"}
				}
				return nil
			},
		},
		Medication: &Collection[MedicationLog]{
			kv: store, key: MedicationKey,
			id:    func(r *MedicationLog) string { return r.ID },
			setID: func(r *MedicationLog, id string) { r.ID = id },
			when:  func(r *MedicationLog) time.Time { return r.Time },
			validate: func(r *MedicationLog) error {
				return required("name", r.Name)
			},
		},
		BloodPressure: &Collection[BloodPressureLog]{
			kv: store, key: BloodPressureKey,
			id:    func(r *BloodPressureLog) string { return r.ID },
			setID: func(r *BloodPressureLog, id string) { r.ID = id },
			when:  func(r *BloodPressureLog) time.Time { return r.Time },
			validate: func(r *BloodPressureLog) error {
				if err := required("systolic", r.Systolic); err != nil {
					return err
				}
				if err := required("diastolic", r.Diastolic); err != nil {
					return err
				}
				return required("restingHeartRate", r.RestingHeartRate)
			},
		},
		Weight: &Collection[WeightLog]{
			kv: store, key: WeightKey,
			id:    func(r *WeightLog) string { return r.ID },
			setID: func(r *WeightLog, id string) { r.ID = id },
			when:  func(r *WeightLog) time.Time { return r.Time },
			validate: func(r *WeightLog) error {
				return required("weight", r.Weight)
			},
		},
		BloodSugar: &Collection[BloodSugarLog]{
			kv: store, key: BloodSugarKey,
			id:    func(r *BloodSugarLog) string { return r.ID },
			setID: func(r *BloodSugarLog, id string) { r.ID = id },
			when:  func(r *BloodSugarLog) time.Time { return r.Time },
			validate: func(r *BloodSugarLog) error {
				if err := required("value", r.Value); err != nil {
					return err
				}
				switch r.Timing {
				case TimingBefore, TimingAfter, TimingOther:
					return nil
				}
				return &ValidationError{Field: "timing", Reason: "must be before, after or other"}
			},
		},
		Temperature: &Collection[TemperatureLog]{
			kv: store, key: TemperatureKey,
			id:    func(r *TemperatureLog) string { return r.ID },
			setID: func(r *TemperatureLog, id string) { r.ID = id },
			when:  func(r *TemperatureLog) time.Time { return r.Time },
			validate: func(r *TemperatureLog) error {
				return required("value", r.Value)
			},
		},
		Visit: &Collection[VisitLog]{
			kv: store, key: VisitKey,
			id:    func(r *VisitLog) string { return r.ID },
			setID: func(r *VisitLog, id string) { r.ID = id },
			when:  func(r *VisitLog) time.Time { return r.Time },
			validate: func(r *VisitLog) error {
				return required("hospitalName", r.HospitalName)
			},
		},
	}
}
