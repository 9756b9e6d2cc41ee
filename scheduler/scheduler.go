// Package scheduler manages the daily formulary refresh.
package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/posologie-api/interfaces"
	"github.com/giygas/posologie-api/logging"
)

// FormularyScheduler loads the medication catalog at startup and refreshes
// it once a day through the injected parser.
type FormularyScheduler struct {
	store     interfaces.FormularyStore
	parser    interfaces.CatalogParser
	scheduler *gocron.Scheduler
	stopWatch chan struct{}
}

var _ interfaces.Scheduler = (*FormularyScheduler)(nil)

// NewFormularyScheduler creates a new scheduler with injected dependencies
func NewFormularyScheduler(store interfaces.FormularyStore, parser interfaces.CatalogParser) *FormularyScheduler {
	return &FormularyScheduler{
		store:     store,
		parser:    parser,
		scheduler: gocron.NewScheduler(time.Local),
		stopWatch: make(chan struct{}),
	}
}

// Start performs the initial catalog load and schedules the daily refresh
func (s *FormularyScheduler) Start() error {
	// Initial load
	if err := s.refreshFormulary(); err != nil {
		logging.Error("Failed to perform initial formulary load", "error", err)
		return fmt.Errorf("initial formulary load failed: %w", err)
	}

	// Refresh daily at 06:00
	_, err := s.scheduler.Every(1).Days().At("06:00").Do(func() {
		if err := s.refreshFormulary(); err != nil {
			logging.Error("Failed to refresh formulary", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule formulary refresh", "error", err)
		return fmt.Errorf("failed to schedule formulary refresh: %w", err)
	}

	s.scheduler.StartAsync()

	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler and the staleness monitor
func (s *FormularyScheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopWatch)
}

// refreshFormulary performs a complete catalog reload through the parser
func (s *FormularyScheduler) refreshFormulary() error {
	// Prevent concurrent refreshes
	if !s.store.BeginUpdate() {
		logging.Info("Formulary refresh already in progress, skipping...")
		return nil
	}
	defer s.store.EndUpdate()

	start := time.Now()

	medications, index, err := s.parser.ParseFormulary()
	if err != nil {
		logging.Error("Failed to parse formulary", "error", err)
		return fmt.Errorf("failed to parse formulary: %w", err)
	}

	// Atomic swap of the whole catalog
	s.store.UpdateFormulary(medications, index)

	logging.Info("Formulary refresh completed",
		"duration", time.Since(start).String(),
		"medication_count", len(medications))

	return nil
}

// startStalenessMonitoring warns when the catalog misses its daily refresh
func (s *FormularyScheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopWatch:
				return
			case <-ticker.C:
				lastUpdate := s.store.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Formulary hasn't been refreshed in over 25 hours")
				}
			}
		}
	}()
}
