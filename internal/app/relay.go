package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
)

// RelayService validates booking submissions and forwards them to the
// operator chat. It holds no per-request state and is safe for concurrent use.
type RelayService struct {
	notifier  domain.Notifier
	validator *Validator
	resolver  *ItemResolver
	formatter Formatter
	clock     shared.Clock
}

func NewRelayService(n domain.Notifier, c *domain.Catalog, f Formatter, clock shared.Clock) *RelayService {
	if clock == nil {
		clock = shared.RealClock{}
	}
	return &RelayService{
		notifier:  n,
		validator: NewValidator(),
		resolver:  NewItemResolver(c),
		formatter: f,
		clock:     clock,
	}
}

type SubmitResult struct {
	SubmissionID string
	MessageID    int64
}

var errNotConfigured = errors.Mark(errors.New("messaging credentials are not configured"), domain.ErrConfiguration)

// Submit runs validate → resolve → format → deliver. Errors are marked with
// domain.ErrValidation, domain.ErrConfiguration or domain.ErrUpstreamDelivery.
// Validation failures unwrap to domain.ValidationErrors.
func (s *RelayService) Submit(ctx context.Context, req domain.BookingRequest, meta domain.RequestMeta, lang string) (SubmitResult, error) {
	req.Normalize()
	if verrs := s.validator.Validate(req, lang); len(verrs) > 0 {
		return SubmitResult{}, errors.Mark(verrs, domain.ErrValidation)
	}

	// credentials are checked before anything leaves the process
	if s.notifier == nil || !s.notifier.Configured() {
		return SubmitResult{}, errNotConfigured
	}

	if meta.ReceivedAt.IsZero() {
		meta.ReceivedAt = s.clock.Now()
	}
	e := Enriched{Request: req, Meta: meta}
	if !req.RentItem.IsZero() {
		e.RentItemName = s.resolver.Resolve(req.RentItem, domain.ActionRent)
	}
	if !req.SaleItem.IsZero() {
		e.SaleItemName = s.resolver.Resolve(req.SaleItem, domain.ActionBuy)
	}

	id := uuid.NewString()
	d, err := s.notifier.Send(ctx, domain.Message{
		Text:      s.formatter.Format(e),
		ParseMode: s.formatter.Markup.ParseMode(),
	})
	if err != nil {
		log.Error().Err(err).
			Str("submission_id", id).
			Str("action", req.ActionType).
			Msg("booking delivery failed")
		if !errors.Is(err, domain.ErrUpstreamDelivery) {
			err = errors.Mark(err, domain.ErrUpstreamDelivery)
		}
		return SubmitResult{SubmissionID: id}, errors.Wrap(err, "deliver booking")
	}

	log.Info().
		Str("submission_id", id).
		Str("action", req.ActionType).
		Int64("message_id", d.MessageID).
		Msg("booking delivered")
	return SubmitResult{SubmissionID: id, MessageID: d.MessageID}, nil
}

// SendTest posts a connectivity probe to the operator chat.
func (s *RelayService) SendTest(ctx context.Context) (domain.Delivery, error) {
	if s.notifier == nil || !s.notifier.Configured() {
		return domain.Delivery{}, errNotConfigured
	}
	d, err := s.notifier.Send(ctx, domain.Message{
		Text:      s.formatter.TestMessage(s.clock.Now()),
		ParseMode: s.formatter.Markup.ParseMode(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrUpstreamDelivery) {
			err = errors.Mark(err, domain.ErrUpstreamDelivery)
		}
		return domain.Delivery{}, errors.Wrap(err, "send test message")
	}
	return d, nil
}

// Configured reports whether the notifier has credentials.
func (s *RelayService) Configured() bool {
	return s.notifier != nil && s.notifier.Configured()
}
