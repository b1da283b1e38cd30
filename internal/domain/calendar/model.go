package calendar

import "time"

type Event struct {
	PrescriptionID string
	Name           string
	Dosage         string
	Date           time.Time
	Time           string
	Text           string // "{name} - {dosage} at {time}"
	Key            string // "{prescriptionId}-{time}"
	Taken          bool
	CanMark        bool
}

// Day se devuelve aunque no tenga eventos.
type Day struct {
	Date   time.Time
	Events []Event
}

type Week struct {
	Owner  string
	Viewer string
	Today  time.Time
	Days   []Day
}
