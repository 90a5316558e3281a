package tracker

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/just-rehan/vitality-companion/internal/errors"
	"github.com/just-rehan/vitality-companion/internal/store"
	"go.uber.org/zap"
)

// Tracker aggregates the four collections behind one mutex. All mutations
// go through it, which is the concurrency model here: the web app ran on a
// single state-update queue, and the mutex gives the same last-write
// consistency under fiber's handler goroutines.
type Tracker struct {
	store  *store.Store
	logger *zap.Logger

	mu          sync.Mutex
	medications []Medication
	vitals      []VitalRecord
	allergies   []Allergy
	sosHistory  []SOSEvent
}

// New hydrates a Tracker from the store. Collections that are missing or no
// longer parse fall back to the first-run seed records.
func New(st *store.Store, logger *zap.Logger) *Tracker {
	t := &Tracker{
		store:       st,
		logger:      logger,
		medications: store.Load(st, store.KeyMedications, SeedMedications()),
		vitals:      store.Load(st, store.KeyVitals, SeedVitals()),
		allergies:   store.Load(st, store.KeyAllergies, SeedAllergies()),
		sosHistory:  store.Load(st, store.KeySOSHistory, []SOSEvent{}),
	}

	logger.Info("Collections hydrated",
		zap.Int("medications", len(t.medications)),
		zap.Int("vitals", len(t.vitals)),
		zap.Int("allergies", len(t.allergies)),
		zap.Int("sos_events", len(t.sosHistory)),
	)

	return t
}

// Medications returns a snapshot copy of the medication list
func (t *Tracker) Medications() []Medication {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Medication, len(t.medications))
	copy(out, t.medications)
	return out
}

// AddMedication validates and appends a new medication. Name, dosage and
// time are all required; time must be a 24-hour HH:MM string.
func (t *Tracker) AddMedication(name, dosage, timeStr string) (Medication, error) {
	name = strings.TrimSpace(name)
	dosage = strings.TrimSpace(dosage)
	timeStr = strings.TrimSpace(timeStr)

	if name == "" || dosage == "" || timeStr == "" {
		return Medication{}, errors.ErrMissingFields
	}
	if !ValidClockTime(timeStr) {
		return Medication{}, errors.ErrInvalidTime
	}

	med := Medication{
		ID:     uuid.NewString(),
		Name:   name,
		Dosage: dosage,
		Time:   timeStr,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.medications = AddMedication(t.medications, med)
	return med, t.saveMedicationsLocked()
}

// RemoveMedication deletes the medication with the given id
func (t *Tracker) RemoveMedication(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := RemoveMedication(t.medications, id)
	if len(next) == len(t.medications) {
		return errors.ErrMedicationNotFound
	}
	t.medications = next
	return t.saveMedicationsLocked()
}

// UpdateMedication applies a partial update to the medication with the
// given id and returns the updated record.
func (t *Tracker) UpdateMedication(id string, patch MedicationPatch) (Medication, error) {
	if patch.Time != nil && !ValidClockTime(*patch.Time) {
		return Medication{}, errors.ErrInvalidTime
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	next, found := UpdateMedication(t.medications, id, patch)
	if !found {
		return Medication{}, errors.ErrMedicationNotFound
	}
	t.medications = next

	var updated Medication
	for _, m := range t.medications {
		if m.ID == id {
			updated = m
		}
	}
	return updated, t.saveMedicationsLocked()
}

// ResetAllReminders clears every reminderSent flag (daily rollover)
func (t *Tracker) ResetAllReminders() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.medications = ResetReminders(t.medications)
	return t.saveMedicationsLocked()
}

// Vitals returns a snapshot copy of the vitals list
func (t *Tracker) Vitals() []VitalRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]VitalRecord, len(t.vitals))
	copy(out, t.vitals)
	return out
}

// AddVital validates and appends a vitals record. BP and weight are
// mandatory; sugar and pulse default to zero. An empty date becomes today.
func (t *Tracker) AddVital(rec VitalRecord) (VitalRecord, error) {
	if rec.BP == 0 || rec.Weight == 0 {
		return VitalRecord{}, errors.ErrMissingFields
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format("2006-01-02")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.vitals = AppendVital(t.vitals, rec)
	if err := store.Save(t.store, store.KeyVitals, t.vitals); err != nil {
		return rec, err
	}
	return rec, nil
}

// Allergies returns a snapshot copy of the allergy list
func (t *Tracker) Allergies() []Allergy {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Allergy, len(t.allergies))
	copy(out, t.allergies)
	return out
}

// AddAllergy validates and appends a new allergy
func (t *Tracker) AddAllergy(kind AllergyType, name string, severity Severity) (Allergy, error) {
	name = strings.TrimSpace(name)
	if name == "" || !validAllergyType(kind) || !validSeverity(severity) {
		return Allergy{}, errors.ErrMissingFields
	}

	a := Allergy{
		ID:       uuid.NewString(),
		Type:     kind,
		Name:     name,
		Severity: severity,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.allergies = AddAllergy(t.allergies, a)
	if err := store.Save(t.store, store.KeyAllergies, t.allergies); err != nil {
		return a, err
	}
	return a, nil
}

// RemoveAllergy deletes the allergy with the given id
func (t *Tracker) RemoveAllergy(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := RemoveAllergy(t.allergies, id)
	if len(next) == len(t.allergies) {
		return errors.ErrAllergyNotFound
	}
	t.allergies = next
	return store.Save(t.store, store.KeyAllergies, t.allergies)
}

// SOSHistory returns a snapshot copy of the SOS history, most recent first
func (t *Tracker) SOSHistory() []SOSEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SOSEvent, len(t.sosHistory))
	copy(out, t.sosHistory)
	return out
}

// RecordSOSEvent prepends a dispatched event to the history
func (t *Tracker) RecordSOSEvent(ev SOSEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sosHistory = PrependSOSEvent(t.sosHistory, ev)
	return store.Save(t.store, store.KeySOSHistory, t.sosHistory)
}

func (t *Tracker) saveMedicationsLocked() error {
	return store.Save(t.store, store.KeyMedications, t.medications)
}

// ValidClockTime reports whether s is a valid 24-hour "HH:MM" string
func ValidClockTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

func validAllergyType(k AllergyType) bool {
	switch k {
	case AllergyFood, AllergyMedicine, AllergyEnvironment:
		return true
	}
	return false
}

func validSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}
