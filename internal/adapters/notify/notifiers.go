// Package notify tiene los notifiers concretos: log, fan-out y webhook. El hub
// WebSocket vive en notify/wshub.
package notify

import (
	"context"
	"errors"

	"med-reminder/internal/platform/logger"
	port "med-reminder/internal/ports/notify"
)

// Log escribe cada recordatorio en el logger; útil en dev y como sink por
// defecto cuando no hay otro canal.
type Log struct {
	log logger.Logger
}

func NewLog(log logger.Logger) *Log {
	if log == nil {
		log = logger.Nop()
	}
	return &Log{log: log.With(map[string]any{"component": "notify.log"})}
}

func (n *Log) Send(ctx context.Context, msg port.Message) error {
	n.log.Info("reminder", map[string]any{
		"identity":        msg.Identity,
		"title":           msg.Title,
		"body":            msg.Body,
		"prescription_id": msg.PrescriptionID,
		"date":            msg.Date,
		"time":            msg.Time,
	})
	return nil
}

// Multi entrega a todos los notifiers; un fallo no corta al resto y los
// errores se devuelven juntos.
type Multi []port.Notifier

func (m Multi) Send(ctx context.Context, msg port.Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
