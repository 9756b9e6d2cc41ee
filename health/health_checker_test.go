package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/giygas/posologie-api/formularyparser/entities"
)

// mockFormularyStore implements interfaces.FormularyStore for testing
type mockFormularyStore struct {
	medications []entities.Medication
	lastUpdated time.Time
	isUpdating  bool
}

func (m *mockFormularyStore) GetMedications() []entities.Medication { return m.medications }

func (m *mockFormularyStore) GetMedicationsMap() map[string]entities.Medication {
	return make(map[string]entities.Medication)
}

func (m *mockFormularyStore) GetLastUpdated() time.Time { return m.lastUpdated }

func (m *mockFormularyStore) IsUpdating() bool { return m.isUpdating }

func (m *mockFormularyStore) GetServerStartTime() time.Time { return time.Time{} }

func (m *mockFormularyStore) UpdateFormulary(medications []entities.Medication, index map[string]entities.Medication) {
}

func (m *mockFormularyStore) BeginUpdate() bool { return true }

func (m *mockFormularyStore) EndUpdate() {}

func TestHealthCheckHealthy(t *testing.T) {
	store := &mockFormularyStore{
		medications: []entities.Medication{
			{Name: "Warfarine", Strengths: []int{1, 2, 5}},
		},
		lastUpdated: time.Now().Add(-1 * time.Hour),
	}

	status, details, httpStatus := NewHealthChecker(store).HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected status 'healthy', got %q", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected HTTP 200, got %d", httpStatus)
	}
	if details["medications"] != 1 {
		t.Errorf("Expected 1 medication in details, got %v", details["medications"])
	}
	if details["is_updating"] != false {
		t.Errorf("Expected is_updating false, got %v", details["is_updating"])
	}
	if _, ok := details["last_update"]; !ok {
		t.Error("Details should contain 'last_update'")
	}
}

func TestHealthCheckUnhealthyEmptyCatalog(t *testing.T) {
	store := &mockFormularyStore{
		medications: []entities.Medication{},
		lastUpdated: time.Now(),
	}

	status, _, httpStatus := NewHealthChecker(store).HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got %q", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP 503, got %d", httpStatus)
	}
}

func TestHealthCheckDegradedStaleData(t *testing.T) {
	store := &mockFormularyStore{
		medications: []entities.Medication{{Name: "Warfarine"}},
		lastUpdated: time.Now().Add(-40 * time.Hour),
	}

	status, details, httpStatus := NewHealthChecker(store).HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected status 'degraded', got %q", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected HTTP 503, got %d", httpStatus)
	}
	if age := details["data_age_hours"].(float64); age < 36 {
		t.Errorf("Expected data age above 36 hours, got %f", age)
	}
}

func TestHealthCheckUnhealthyVeryStaleData(t *testing.T) {
	store := &mockFormularyStore{
		medications: []entities.Medication{{Name: "Warfarine"}},
		lastUpdated: time.Now().Add(-80 * time.Hour),
	}

	status, _, _ := NewHealthChecker(store).HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected status 'unhealthy', got %q", status)
	}
}

func TestHealthCheckDegradedLongRunningUpdate(t *testing.T) {
	store := &mockFormularyStore{
		medications: []entities.Medication{{Name: "Warfarine"}},
		lastUpdated: time.Now().Add(-8 * time.Hour),
		isUpdating:  true,
	}

	status, _, _ := NewHealthChecker(store).HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected status 'degraded' during a stuck refresh, got %q", status)
	}
}

func TestCalculateNextRefresh(t *testing.T) {
	checker := NewHealthChecker(&mockFormularyStore{})

	next := checker.CalculateNextRefresh()
	now := time.Now()

	if !next.After(now) {
		t.Errorf("Next refresh %v should be in the future", next)
	}
	if next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("Next refresh should be at 06:00, got %v", next)
	}
	if next.Sub(now) > 24*time.Hour {
		t.Errorf("Next refresh should be within 24 hours, got %v", next.Sub(now))
	}
}
