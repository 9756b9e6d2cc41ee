package data

import (
	"sync"
	"testing"
	"time"

	"github.com/giygas/posologie-api/formularyparser/entities"
)

func TestNewFormularyContainerIsEmpty(t *testing.T) {
	fc := NewFormularyContainer()

	if got := fc.GetMedications(); len(got) != 0 {
		t.Errorf("Expected empty catalog, got %d entries", len(got))
	}
	if got := fc.GetMedicationsMap(); len(got) != 0 {
		t.Errorf("Expected empty index, got %d entries", len(got))
	}
	if !fc.GetLastUpdated().IsZero() {
		t.Error("Expected zero last updated time")
	}
	if fc.IsUpdating() {
		t.Error("New container should not be updating")
	}
}

func TestUpdateFormulary(t *testing.T) {
	fc := NewFormularyContainer()

	medications := []entities.Medication{
		{Name: "Warfarine", Strengths: []int{1, 2, 5}, Halvable: true},
	}
	index := map[string]entities.Medication{"warfarine": medications[0]}

	before := time.Now()
	fc.UpdateFormulary(medications, index)

	got := fc.GetMedications()
	if len(got) != 1 || got[0].Name != "Warfarine" {
		t.Errorf("Expected swapped catalog, got %v", got)
	}
	if _, ok := fc.GetMedicationsMap()["warfarine"]; !ok {
		t.Error("Expected warfarine in the index")
	}
	if fc.GetLastUpdated().Before(before) {
		t.Error("Expected last updated to advance after the swap")
	}
}

func TestBeginUpdateIsExclusive(t *testing.T) {
	fc := NewFormularyContainer()

	if !fc.BeginUpdate() {
		t.Fatal("First BeginUpdate should succeed")
	}
	if fc.BeginUpdate() {
		t.Error("Second BeginUpdate should fail while a refresh is running")
	}
	if !fc.IsUpdating() {
		t.Error("IsUpdating should be true during a refresh")
	}

	fc.EndUpdate()
	if fc.IsUpdating() {
		t.Error("IsUpdating should be false after EndUpdate")
	}
	if !fc.BeginUpdate() {
		t.Error("BeginUpdate should succeed again after EndUpdate")
	}
}

func TestServerStartTime(t *testing.T) {
	fc := NewFormularyContainer()

	start := time.Now()
	fc.SetServerStartTime(start)

	if !fc.GetServerStartTime().Equal(start) {
		t.Errorf("Expected start time %v, got %v", start, fc.GetServerStartTime())
	}
}

func TestConcurrentReadsDuringSwap(t *testing.T) {
	fc := NewFormularyContainer()

	var wg sync.WaitGroup
	done := make(chan struct{})

	// Concurrent readers exercise the atomic loads; run with -race.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					_ = fc.GetMedications()
					_ = fc.GetMedicationsMap()
					_ = fc.GetLastUpdated()
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		medications := []entities.Medication{{Name: "Warfarine", Strengths: []int{1}}}
		index := map[string]entities.Medication{"warfarine": medications[0]}
		fc.UpdateFormulary(medications, index)
	}

	close(done)
	wg.Wait()
}
