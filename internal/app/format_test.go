package app_test

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking_relay/internal/app"
	"booking_relay/internal/domain"
)

const testUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0"

func yerevan(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Yerevan")
	require.NoError(t, err)
	return loc
}

func fullBooking() app.Enriched {
	return app.Enriched{
		Request: domain.BookingRequest{
			FullName:        "Ann Smith",
			PhoneNumber:     "+374 55 123456",
			ActionType:      "rent",
			RentItem:        domain.NewItemRef("3"),
			ProductName:     "Earpiece <Pro>",
			RentalStartDate: "2026-10-20",
			RentalEndDate:   "2026-10-22",
		},
		Meta: domain.RequestMeta{
			IP:         "203.0.113.7",
			UserAgent:  testUA,
			ReceivedAt: time.Date(2026, 10, 18, 11, 4, 5, 0, time.UTC),
		},
		RentItemName: "Micro Earpieces Light",
	}
}

func TestFormatter_HTML(t *testing.T) {
	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: app.MarkupHTML, SiteName: "SpyTech Exam Tools Website"}

	want := "🎧 <b>New Booking Request</b>\n\n" +
		"📅 <b>Date:</b> 10/18/2026, 03:04:05 PM (Armenia Time)\n" +
		"👤 <b>Name:</b> Ann Smith\n" +
		"📞 <b>Phone:</b> +374 55 123456\n" +
		"🎯 <b>Action Type:</b> rent\n" +
		"📦 <b>Product:</b> Earpiece &lt;Pro&gt;\n" +
		"🔄 <b>Rent Item:</b> Micro Earpieces Light (ID: 3)\n" +
		"\n📅 <b>Rental Details:</b>\n" +
		"Start Date: 2026-10-20\n" +
		"End Date: 2026-10-22\n" +
		"🌍 <b>IP:</b> 203.0.113.7\n" +
		"💻 <b>Device:</b> Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWeb...\n" +
		"\n🌐 <b>Source:</b> SpyTech Exam Tools Website" +
		"\n\n<i>Please contact the customer within 24 hours.</i>"

	got := f.Format(fullBooking())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatter_Deterministic(t *testing.T) {
	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: app.MarkupHTML, SiteName: "Site"}
	e := fullBooking()
	assert.Equal(t, f.Format(e), f.Format(e))
}

func TestFormatter_OptionalLines(t *testing.T) {
	f := app.Formatter{Markup: app.MarkupHTML}

	t.Run("minimal booking", func(t *testing.T) {
		got := f.Format(app.Enriched{
			Request: domain.BookingRequest{FullName: "Ann", PhoneNumber: "555", ActionType: "buy"},
			Meta:    domain.RequestMeta{ReceivedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		})
		assert.Contains(t, got, "01/02/2026, 12:00:00 AM")
		for _, absent := range []string{"Product:", "Rent Item:", "Sale Item:", "Rental Details", "IP:", "Device:", "Source:"} {
			assert.NotContains(t, got, absent)
		}
		assert.True(t, strings.HasSuffix(got, "<i>Please contact the customer within 24 hours.</i>"))
	})

	t.Run("rental dates only for rent", func(t *testing.T) {
		e := fullBooking()
		e.Request.ActionType = "buy"
		assert.NotContains(t, f.Format(e), "Rental Details")

		e = fullBooking()
		e.Request.RentalStartDate = ""
		got := f.Format(e)
		assert.Contains(t, got, "Rental Details")
		assert.NotContains(t, got, "Start Date:")
		assert.Contains(t, got, "End Date: 2026-10-22")
	})

	t.Run("sale item line", func(t *testing.T) {
		e := fullBooking()
		e.Request.SaleItem = domain.NewItemRef("11")
		e.SaleItemName = "Micro Earpieces Croco"
		assert.Contains(t, f.Format(e), "💰 <b>Sale Item:</b> Micro Earpieces Croco (ID: 11)\n")
	})

	t.Run("short user agent", func(t *testing.T) {
		e := fullBooking()
		e.Meta.UserAgent = "curl/8.5.0"
		assert.Contains(t, f.Format(e), "<b>Device:</b> curl/8.5.0...\n")
	})

	t.Run("user agent truncated by characters", func(t *testing.T) {
		e := fullBooking()
		e.Meta.UserAgent = strings.Repeat("ж", 60)
		assert.Contains(t, f.Format(e), "<b>Device:</b> "+strings.Repeat("ж", 50)+"...\n")
	})
}

func TestFormatter_MarkdownV2(t *testing.T) {
	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: app.MarkupMarkdownV2}
	e := fullBooking()
	e.Meta.UserAgent = ""
	e.Request.ProductName = ""

	got := f.Format(e)
	assert.Contains(t, got, "🎧 *New Booking Request*\n\n")
	assert.Contains(t, got, "📅 *Date:* 10/18/2026, 03:04:05 PM \\(Armenia Time\\)\n")
	assert.Contains(t, got, "📞 *Phone:* \\+374 55 123456\n")
	assert.Contains(t, got, "Start Date: 2026\\-10\\-20\n")
	assert.Contains(t, got, "🌍 *IP:* 203\\.0\\.113\\.7\n")
	assert.True(t, strings.HasSuffix(got, "_Please contact the customer within 24 hours\\._"))
}

func TestFormatter_UnknownMarkupDegradesToPlain(t *testing.T) {
	m := app.ParseMarkup("BBCode")
	assert.Equal(t, app.MarkupPlain, m)
	assert.Equal(t, "", m.ParseMode())
	assert.Equal(t, app.MarkupHTML, app.ParseMarkup("html"))
	assert.Equal(t, app.MarkupMarkdownV2, app.ParseMarkup("MarkdownV2"))

	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: m, SiteName: "Site"}
	got := f.Format(fullBooking())
	assert.NotContains(t, got, "<b>")
	assert.NotContains(t, got, "<i>")
	assert.Contains(t, got, "👤 Name: Ann Smith\n")
	assert.Contains(t, got, "📦 Product: Earpiece <Pro>\n")
	assert.True(t, strings.HasSuffix(got, "\n\nPlease contact the customer within 24 hours."))
}

func TestFormatter_TestMessage(t *testing.T) {
	f := app.Formatter{Location: yerevan(t), ZoneLabel: "Armenia Time", Markup: app.MarkupHTML}
	got := f.TestMessage(time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "🧪 <b>Test Message</b>\n\nTelegram integration is working!\n\n📅 10/19/2026, 12:00:00 AM (Armenia Time)", got)
}
