// Package tracker owns the four health collections: medications, vitals,
// allergies, and SOS history. The collections are the single source of
// truth for the running session; every mutation is written through to the
// store so the in-memory and persisted copies converge after each change.
package tracker

import "time"

// Medication represents a scheduled medication
type Medication struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Dosage       string `json:"dosage"` // e.g. "500mg", "1 tablet"
	Time         string `json:"time"`   // 24-hour "HH:MM", local clock
	ReminderSent bool   `json:"reminderSent"`
	Purpose      string `json:"purpose,omitempty"`
}

// VitalRecord represents one day's measurements. Records carry no id and
// are append-only: multiple entries per date are allowed, in entry order.
type VitalRecord struct {
	Date   string  `json:"date"` // "YYYY-MM-DD"
	BP     int     `json:"bp"`
	Weight float64 `json:"weight"`
	Sugar  int     `json:"sugar"`
	Pulse  int     `json:"pulse"`
}

// AllergyType categorizes an allergy
type AllergyType string

const (
	AllergyFood        AllergyType = "Food"
	AllergyMedicine    AllergyType = "Medicine"
	AllergyEnvironment AllergyType = "Environment"
)

// Severity grades an allergy
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Allergy represents a recorded allergy. Allergies are created and deleted
// but never edited in place.
type Allergy struct {
	ID       string      `json:"id"`
	Type     AllergyType `json:"type"`
	Name     string      `json:"name"`
	Severity Severity    `json:"severity"`
}

// SOSStatus tracks the lifecycle of an emergency dispatch
type SOSStatus string

const (
	SOSDispatched   SOSStatus = "Dispatched"
	SOSAcknowledged SOSStatus = "Acknowledged"
	SOSResolved     SOSStatus = "Resolved"
)

// SOSEvent records a dispatched emergency alert, most recent first. No code
// path advances the status past Dispatched; the later states exist for
// stored history written by earlier versions.
type SOSEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Location  Coordinates `json:"location"`
	Status    SOSStatus   `json:"status"`
}

// Coordinates is a geographic position
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// MedicationPatch carries a partial medication update. Nil fields are left
// untouched.
type MedicationPatch struct {
	Name         *string `json:"name,omitempty"`
	Dosage       *string `json:"dosage,omitempty"`
	Time         *string `json:"time,omitempty"`
	ReminderSent *bool   `json:"reminderSent,omitempty"`
	Purpose      *string `json:"purpose,omitempty"`
}
