// Package interfaces defines core abstractions for the posologie API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/giygas/posologie-api/formularyparser/entities"
	"github.com/giygas/posologie-api/posologie"
)

// FormularyStore defines the contract for formulary storage operations.
// It provides thread-safe access to the medication catalog with atomic
// operations for zero-downtime refreshes.
type FormularyStore interface {
	// Catalog retrieval methods
	GetMedications() []entities.Medication
	GetMedicationsMap() map[string]entities.Medication
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time

	// Catalog update methods
	UpdateFormulary(medications []entities.Medication, index map[string]entities.Medication)
	BeginUpdate() bool
	EndUpdate()
}

// CatalogParser defines the contract for loading the medication formulary
// from its configured source (bundled defaults, local TSV, or download).
type CatalogParser interface {
	// ParseFormulary loads the catalog and returns the medication list
	// together with a lower-cased name index.
	ParseFormulary() ([]entities.Medication, map[string]entities.Medication, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated formulary refreshes and staleness checks.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// RegimenSolver defines the contract for computing weekly dosing regimens.
type RegimenSolver interface {
	// Solve returns ranked regimen options for a validated request, or an
	// empty list when no regimen reaches the target.
	Solve(in posologie.CalculationInput) ([]posologie.FinalOutput, error)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status
	HealthCheck() (status string, details map[string]any, httpStatus int)

	// CalculateNextRefresh returns the next scheduled formulary refresh
	CalculateNextRefresh() time.Time
}

// RequestValidator defines the contract for validating free-form request
// input before it reaches a lookup or the solver.
type RequestValidator interface {
	// ValidateMedicationName screens a medication name and returns its
	// normalized lookup form
	ValidateMedicationName(input string) (string, error)
}
