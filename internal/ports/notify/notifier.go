package notify

import (
	"context"
	"time"
)

// Message es un recordatorio listo para entregar a una identidad.
type Message struct {
	Identity       string    `json:"identity"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	FireAt         time.Time `json:"fire_at"`
	PrescriptionID string    `json:"prescription_id,omitempty"`
	Date           string    `json:"date,omitempty"`
	Time           string    `json:"time,omitempty"`
}

// Notifier entrega un mensaje. Los errores se loguean en el caller; no hay retry.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
