// Package data provides thread-safe storage for the medication formulary.
// It includes the FormularyContainer struct with atomic operations for
// zero-downtime catalog refreshes and thread-safe access methods.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/posologie-api/formularyparser/entities"
	"github.com/giygas/posologie-api/interfaces"
	"github.com/giygas/posologie-api/logging"
)

// Compile-time check to ensure FormularyContainer implements FormularyStore
var _ interfaces.FormularyStore = (*FormularyContainer)(nil)

// FormularyContainer holds the catalog with atomic pointers for
// zero-downtime refreshes
type FormularyContainer struct {
	medications     atomic.Value // []entities.Medication
	medicationsMap  atomic.Value // map[string]entities.Medication, keyed by lower-cased name
	lastUpdated     atomic.Value // time.Time
	updating        atomic.Bool
	serverStartTime atomic.Value // time.Time
}

// NewFormularyContainer creates a new FormularyContainer with empty data
func NewFormularyContainer() *FormularyContainer {
	fc := &FormularyContainer{}
	fc.medications.Store(make([]entities.Medication, 0))
	fc.medicationsMap.Store(make(map[string]entities.Medication))
	fc.lastUpdated.Store(time.Time{})
	fc.serverStartTime.Store(time.Time{})
	return fc
}

// Thread-safe getters with type check

// GetMedications returns the medication catalog
func (fc *FormularyContainer) GetMedications() []entities.Medication {
	if v := fc.medications.Load(); v != nil {
		if medications, ok := v.([]entities.Medication); ok {
			return medications
		}
	}

	logging.Warn("Medication catalog is empty or invalid")
	return []entities.Medication{}
}

// GetMedicationsMap returns the name index for O(1) lookups
func (fc *FormularyContainer) GetMedicationsMap() map[string]entities.Medication {
	if v := fc.medicationsMap.Load(); v != nil {
		if medicationsMap, ok := v.(map[string]entities.Medication); ok {
			return medicationsMap
		}
	}

	logging.Warn("Medication index is empty or invalid")
	return make(map[string]entities.Medication)
}

// GetLastUpdated returns the timestamp of the last catalog refresh
func (fc *FormularyContainer) GetLastUpdated() time.Time {
	if v := fc.lastUpdated.Load(); v != nil {
		if lastUpdated, ok := v.(time.Time); ok {
			return lastUpdated
		}
	}

	logging.Warn("Could not get the last updated value")
	return time.Time{}
}

// IsUpdating returns true if a catalog refresh is currently in progress
func (fc *FormularyContainer) IsUpdating() bool {
	return fc.updating.Load()
}

// SetServerStartTime sets the server start time
func (fc *FormularyContainer) SetServerStartTime(startTime time.Time) {
	fc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (fc *FormularyContainer) GetServerStartTime() time.Time {
	if v := fc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}

// UpdateFormulary atomically swaps in a freshly parsed catalog
func (fc *FormularyContainer) UpdateFormulary(medications []entities.Medication, index map[string]entities.Medication) {
	// Atomic swap (zero downtime replacement)
	fc.medications.Store(medications)
	fc.medicationsMap.Store(index)
	fc.lastUpdated.Store(time.Now())
}

// BeginUpdate marks the start of a catalog refresh
// Returns true if the refresh can proceed, false if another is in progress
func (fc *FormularyContainer) BeginUpdate() bool {
	return fc.updating.CompareAndSwap(false, true)
}

// EndUpdate marks the end of a catalog refresh
func (fc *FormularyContainer) EndUpdate() {
	fc.updating.Store(false)
}
