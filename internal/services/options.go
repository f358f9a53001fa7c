package services

import (
	"time"

	"github.com/google/uuid"
)

// Option настраивает сервисы набросков и взаимодействий.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() uuid.UUID
}

func defaultOptions(opts []Option) options {
	o := options{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithNow подменяет источник текущего времени.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator подменяет генератор UUID для имен файлов.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(o *options) { o.newID = newID }
}
