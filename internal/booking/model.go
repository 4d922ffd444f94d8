package booking

// Slot is a bookable time interval for a provider. Slots carry no
// identifier of their own; two slots are the same slot exactly when start,
// end and provider all match.
type Slot struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Provider string `json:"provider"`
}

// Booking is a patient's claim on an interval/provider. While a booking is
// active, the corresponding slot is absent from the pool.
type Booking struct {
	PatientRef string `json:"patient_ref"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Provider   string `json:"provider"`
	VisitType  string `json:"visit_type"`
}

// slot returns the interval a booking occupies, for returning it to the pool.
func (b Booking) slot() Slot {
	return Slot{Start: b.Start, End: b.End, Provider: b.Provider}
}
