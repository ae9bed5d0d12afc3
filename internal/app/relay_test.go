package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"booking_relay/internal/app"
	"booking_relay/internal/app/mocks"
	"booking_relay/internal/catalog"
	"booking_relay/internal/domain"
	"booking_relay/internal/shared"
)

var fixedNow = time.Date(2026, 10, 18, 11, 4, 5, 0, time.UTC)

func newRelay(t *testing.T, n domain.Notifier) *app.RelayService {
	t.Helper()
	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: app.MarkupHTML, SiteName: "Test Site"}
	return app.NewRelayService(n, catalog.Embedded(), f, shared.FixedClock{T: fixedNow})
}

func TestRelayService_Submit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)

	var sent domain.Message
	n.EXPECT().Configured().Return(true)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) (domain.Delivery, error) {
			sent = m
			return domain.Delivery{MessageID: 42}, nil
		})

	res, err := newRelay(t, n).Submit(context.Background(), validRequest(), domain.RequestMeta{IP: "203.0.113.7"}, "en")
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.MessageID)
	assert.NotEmpty(t, res.SubmissionID)

	assert.Equal(t, "HTML", sent.ParseMode)
	assert.Contains(t, sent.Text, "<b>Name:</b> Ann Smith\n")
	assert.Contains(t, sent.Text, "<b>Rent Item:</b> Micro Earpieces Light (ID: 3)\n")
	assert.Contains(t, sent.Text, "10/18/2026, 03:04:05 PM (Armenia Time)")
}

func TestRelayService_Submit_TrimsBeforeValidating(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Configured().Return(true)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) (domain.Delivery, error) {
			assert.Contains(t, m.Text, "<b>Name:</b> Ann Smith\n")
			return domain.Delivery{MessageID: 1}, nil
		})

	req := validRequest()
	req.FullName = "  Ann Smith  "
	_, err := newRelay(t, n).Submit(context.Background(), req, domain.RequestMeta{}, "en")
	require.NoError(t, err)
}

func TestRelayService_Submit_ValidationFailureNeverSends(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Configured().Times(0)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	req := validRequest()
	req.FullName = ""
	_, err := newRelay(t, n).Submit(context.Background(), req, domain.RequestMeta{}, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, domain.FieldError{Field: "fullName", Message: "Full name is required"}, verrs[0])
}

func TestRelayService_Submit_MissingCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Configured().Return(false)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)

	_, err := newRelay(t, n).Submit(context.Background(), validRequest(), domain.RequestMeta{}, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
	assert.False(t, errors.Is(err, domain.ErrValidation))

	_, err = app.NewRelayService(nil, nil, app.Formatter{}, nil).Submit(context.Background(), validRequest(), domain.RequestMeta{}, "en")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestRelayService_Submit_UpstreamFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Configured().Return(true)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).Return(domain.Delivery{}, errors.New("Bad Request: chat not found"))

	res, err := newRelay(t, n).Submit(context.Background(), validRequest(), domain.RequestMeta{}, "en")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamDelivery))
	assert.True(t, strings.Contains(err.Error(), "chat not found"))
	assert.NotEmpty(t, res.SubmissionID)
	assert.Zero(t, res.MessageID)
}

func TestRelayService_Submit_SaleItemResolvedFromSales(t *testing.T) {
	ctrl := gomock.NewController(t)
	n := mocks.NewMockNotifier(ctrl)
	n.EXPECT().Configured().Return(true)
	n.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) (domain.Delivery, error) {
			assert.Contains(t, m.Text, "<b>Sale Item:</b> Micro Earpieces Croco (ID: 11)\n")
			assert.NotContains(t, m.Text, "Rent Item")
			return domain.Delivery{MessageID: 7}, nil
		})

	req := validRequest()
	req.ActionType = "buy"
	req.RentItem = domain.ItemRef{}
	req.SaleItem = domain.NewItemRef("11")
	_, err := newRelay(t, n).Submit(context.Background(), req, domain.RequestMeta{}, "en")
	require.NoError(t, err)
}

func TestRelayService_SendTest(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		n := mocks.NewMockNotifier(ctrl)
		n.EXPECT().Configured().Return(true)
		n.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m domain.Message) (domain.Delivery, error) {
				assert.Contains(t, m.Text, "Test Message")
				return domain.Delivery{MessageID: 9}, nil
			})
		d, err := newRelay(t, n).SendTest(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(9), d.MessageID)
	})

	t.Run("not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		n := mocks.NewMockNotifier(ctrl)
		n.EXPECT().Configured().Return(false)
		_, err := newRelay(t, n).SendTest(context.Background())
		assert.True(t, errors.Is(err, domain.ErrConfiguration))
	})

	t.Run("upstream error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		n := mocks.NewMockNotifier(ctrl)
		n.EXPECT().Configured().Return(true)
		n.EXPECT().Send(gomock.Any(), gomock.Any()).Return(domain.Delivery{}, errors.New("boom"))
		_, err := newRelay(t, n).SendTest(context.Background())
		assert.True(t, errors.Is(err, domain.ErrUpstreamDelivery))
	})
}
