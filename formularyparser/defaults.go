package formularyparser

import "github.com/giygas/posologie-api/formularyparser/entities"

// defaultCatalog is the bundled formulary served when no external source is
// configured. Strengths reflect commonly dispensed tablet lines; halvable
// entries are scored tablets.
func defaultCatalog() []entities.Medication {
	return []entities.Medication{
		{Name: "Warfarine", Strengths: []int{1, 2, 5}, Halvable: true, Notes: "anticoagulant, weekly target dosing"},
		{Name: "Acenocoumarol", Strengths: []int{1, 4}, Halvable: true, Notes: "anticoagulant"},
		{Name: "Fluindione", Strengths: []int{20}, Halvable: true, Notes: "anticoagulant"},
		{Name: "Prednisone", Strengths: []int{1, 5, 20}, Halvable: true, Notes: "corticosteroid, tapering schedules"},
		{Name: "Levothyroxine", Strengths: []int{25, 50, 75, 100}, Halvable: false, Notes: "strengths in micrograms"},
		{Name: "Methotrexate", Strengths: []int{2, 10}, Halvable: false, Notes: "weekly dosing only"},
	}
}
