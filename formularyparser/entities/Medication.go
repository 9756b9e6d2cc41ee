package entities

// Medication is one formulary entry: a medication name and the tablet
// strengths it is dispensed in.
type Medication struct {
	Name      string `json:"name"`
	Strengths []int  `json:"strengths"` // mg per tablet, ascending
	Halvable  bool   `json:"halvable"`  // tablets are scored and may be split
	Notes     string `json:"notes,omitempty"`
}
