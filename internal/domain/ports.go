package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=ports.go -destination=../app/mocks/ports_mock.go -package=mocks

// Message is one outbound notification.
type Message struct {
	Text      string
	ParseMode string // "HTML", "MarkdownV2" or "" for plain text
}

type Delivery struct {
	MessageID int64
}

// Notifier delivers a formatted message to the business operator.
type Notifier interface {
	// Configured reports whether credentials are present. It is checked
	// before any delivery attempt.
	Configured() bool
	Send(ctx context.Context, msg Message) (Delivery, error)
}

type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type CatalogSource interface {
	Load(ctx context.Context) (*Catalog, error)
}
