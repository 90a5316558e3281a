package tracker

// Pure collection operations. Each takes the current list and returns a
// fresh slice; the input is never mutated. Callers validate before calling
// and persist the result afterwards.

// AddMedication appends med to the list
func AddMedication(list []Medication, med Medication) []Medication {
	out := make([]Medication, 0, len(list)+1)
	out = append(out, list...)
	return append(out, med)
}

// RemoveMedication drops the medication with the given id, preserving order
func RemoveMedication(list []Medication, id string) []Medication {
	out := make([]Medication, 0, len(list))
	for _, m := range list {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}

// UpdateMedication applies patch to the medication with the given id. The
// returned bool reports whether the id was found.
func UpdateMedication(list []Medication, id string, patch MedicationPatch) ([]Medication, bool) {
	out := make([]Medication, len(list))
	copy(out, list)

	found := false
	for i := range out {
		if out[i].ID != id {
			continue
		}
		found = true
		if patch.Name != nil {
			out[i].Name = *patch.Name
		}
		if patch.Dosage != nil {
			out[i].Dosage = *patch.Dosage
		}
		if patch.Time != nil {
			out[i].Time = *patch.Time
		}
		if patch.ReminderSent != nil {
			out[i].ReminderSent = *patch.ReminderSent
		}
		if patch.Purpose != nil {
			out[i].Purpose = *patch.Purpose
		}
	}
	return out, found
}

// ResetReminders clears every medication's reminderSent flag
func ResetReminders(list []Medication) []Medication {
	out := make([]Medication, len(list))
	copy(out, list)
	for i := range out {
		out[i].ReminderSent = false
	}
	return out
}

// AppendVital appends rec. Vitals have no id and no remove or update
// operation: the collection is append-only.
func AppendVital(list []VitalRecord, rec VitalRecord) []VitalRecord {
	out := make([]VitalRecord, 0, len(list)+1)
	out = append(out, list...)
	return append(out, rec)
}

// AddAllergy appends a to the list
func AddAllergy(list []Allergy, a Allergy) []Allergy {
	out := make([]Allergy, 0, len(list)+1)
	out = append(out, list...)
	return append(out, a)
}

// RemoveAllergy drops the allergy with the given id, preserving order
func RemoveAllergy(list []Allergy, id string) []Allergy {
	out := make([]Allergy, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

// PrependSOSEvent puts ev at the front so history reads most recent first
func PrependSOSEvent(list []SOSEvent, ev SOSEvent) []SOSEvent {
	out := make([]SOSEvent, 0, len(list)+1)
	out = append(out, ev)
	return append(out, list...)
}

// SeedMedications returns the demo records shown on first run
func SeedMedications() []Medication {
	return []Medication{
		{ID: "1", Name: "Metformin", Dosage: "500mg", Time: "08:00", Purpose: "Blood sugar control"},
		{ID: "2", Name: "Lisinopril", Dosage: "10mg", Time: "20:00", Purpose: "Blood pressure"},
	}
}

// SeedVitals returns the demo records shown on first run
func SeedVitals() []VitalRecord {
	return []VitalRecord{
		{Date: "2024-05-01", BP: 120, Weight: 70, Sugar: 90, Pulse: 72},
		{Date: "2024-05-02", BP: 125, Weight: 71, Sugar: 95, Pulse: 75},
	}
}

// SeedAllergies returns the demo records shown on first run
func SeedAllergies() []Allergy {
	return []Allergy{
		{ID: "1", Type: AllergyMedicine, Name: "Penicillin", Severity: SeverityHigh},
	}
}
