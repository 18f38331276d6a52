package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/visual/pkg/observability"
	"github.com/platinummonkey/visual/pkg/param"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SourceFunc produces the manifest to save
type SourceFunc func() (*param.Manifest, error)

// Scheduler saves snapshots on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	store   Store
	name    string
	source  SourceFunc
	timeout time.Duration
	logger  *logrus.Logger
}

// NewScheduler returns a scheduler that saves source() under name on every
// tick of spec. Call Start to begin. An empty spec schedules nothing and
// leaves saving to SaveNow.
func NewScheduler(spec string, store Store, name string, source SourceFunc, logger *logrus.Logger) (*Scheduler, error) {
	if store == nil || source == nil {
		return nil, fmt.Errorf("snapshot scheduler requires a store and a source")
	}

	s := &Scheduler{
		cron:    cron.New(),
		store:   store,
		name:    name,
		source:  source,
		timeout: 30 * time.Second,
		logger:  observability.OrDefault(logger),
	}

	if spec == "" {
		return s, nil
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the schedule in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running save to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// SaveNow saves a snapshot immediately. A panic in the source or the store
// is returned as an error.
func (s *Scheduler) SaveNow(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot %s: %w", s.name, observability.MustRecover(r))
		}
	}()

	m, err := s.source()
	if err != nil {
		return fmt.Errorf("snapshot source: %w", err)
	}
	if err := s.store.Save(ctx, s.name, m); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"snapshot": s.name,
		"params":   len(m.Params),
	}).Debug("snapshot saved")
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.SaveNow(ctx); err != nil {
		s.logger.WithError(err).WithField("snapshot", s.name).Error("Scheduled snapshot failed")
	}
}
