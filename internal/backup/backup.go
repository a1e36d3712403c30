// Package backup implements the versioned JSON export/restore format.
// Restore merges into existing data by id rather than replacing it.
package backup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/karimata/healthbook/internal/alarm"
	"github.com/karimata/healthbook/internal/healthlog"
)

// Version of the payload layout.
const Version = 1

// ErrInvalidPayload reports a file that is not a backup of this app.
var ErrInvalidPayload = errors.New("not a valid backup payload")

// Payload is the backup file layout.
type Payload struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
	Data       Data      `json:"data"`
}

// Data -.
type Data struct {
	HealthLogs        []healthlog.HealthLog        `json:"healthLogs"`
	BloodPressureLogs []healthlog.BloodPressureLog `json:"bloodPressureLogs"`
	WeightLogs        []healthlog.WeightLog        `json:"weightLogs"`
	BloodSugarLogs    []healthlog.BloodSugarLog    `json:"bloodSugarLogs"`
	TemperatureLogs   []healthlog.TemperatureLog   `json:"temperatureLogs"`
	MedicationLogs    []healthlog.MedicationLog    `json:"medicationLogs"`
	VisitLogs         []healthlog.VisitLog         `json:"visitLogs"`
	Alarms            []alarm.Alarm                `json:"alarms"`
}

// Service -.
type Service struct {
	logs   *healthlog.Service
	alarms *alarm.Controller
	now    func() time.Time
}

// NewService -.
func NewService(logs *healthlog.Service, alarms *alarm.Controller) *Service {
	return &Service{logs: logs, alarms: alarms, now: time.Now}
}

// Export gathers every collection into a payload.
func (s *Service) Export(ctx context.Context) (*Payload, error) {
	p := &Payload{Version: Version, ExportedAt: s.now().UTC()}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		p.Data.HealthLogs, err = s.logs.Health.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.BloodPressureLogs, err = s.logs.BloodPressure.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.WeightLogs, err = s.logs.Weight.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.BloodSugarLogs, err = s.logs.BloodSugar.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.TemperatureLogs, err = s.logs.Temperature.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.MedicationLogs, err = s.logs.Medication.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.VisitLogs, err = s.logs.Visit.List(ctx)
		return err
	})
	eg.Go(func() (err error) {
		p.Data.Alarms, err = s.alarms.List(ctx)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("backup - Service.Export: %w", err)
	}
	return p, nil
}

// Restore merges a payload into the current data, entity by entity.
// The collections are restored sequentially so a failure leaves a clear
// boundary of what has been merged.
func (s *Service) Restore(ctx context.Context, p *Payload) error {
	if p == nil || p.Version != Version {
		return ErrInvalidPayload
	}

	if err := s.logs.Health.Restore(ctx, p.Data.HealthLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - health: %w", err)
	}
	if err := s.logs.Medication.Restore(ctx, p.Data.MedicationLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - medication: %w", err)
	}
	if err := s.logs.BloodPressure.Restore(ctx, p.Data.BloodPressureLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - blood pressure: %w", err)
	}
	if err := s.logs.Weight.Restore(ctx, p.Data.WeightLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - weight: %w", err)
	}
	if err := s.logs.BloodSugar.Restore(ctx, p.Data.BloodSugarLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - blood sugar: %w", err)
	}
	if err := s.logs.Temperature.Restore(ctx, p.Data.TemperatureLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - temperature: %w", err)
	}
	if err := s.logs.Visit.Restore(ctx, p.Data.VisitLogs); err != nil {
		return fmt.Errorf("backup - Service.Restore - visit: %w", err)
	}
	if err := s.alarms.Restore(ctx, p.Data.Alarms); err != nil {
		return fmt.Errorf("backup - Service.Restore - alarms: %w", err)
	}
	return nil
}
