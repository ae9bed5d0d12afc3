package app

import (
	"html"
	"strings"
	"time"

	"booking_relay/internal/domain"
)

// Markup is the formatting dialect understood by the messaging API.
type Markup string

const (
	MarkupHTML       Markup = "HTML"
	MarkupMarkdownV2 Markup = "MarkdownV2"
	MarkupPlain      Markup = ""
)

// ParseMarkup maps a configured parse mode to a dialect. Anything unknown
// degrades to plain text.
func ParseMarkup(s string) Markup {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return MarkupHTML
	case "markdownv2":
		return MarkupMarkdownV2
	}
	return MarkupPlain
}

// ParseMode is the value sent as parse_mode ("" means none).
func (m Markup) ParseMode() string { return string(m) }

const mdV2Reserved = "_*[]()~`>#+-=|{}.!\\"

func (m Markup) escape(s string) string {
	switch m {
	case MarkupHTML:
		return html.EscapeString(s)
	case MarkupMarkdownV2:
		var b strings.Builder
		for _, r := range s {
			if strings.ContainsRune(mdV2Reserved, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		return b.String()
	}
	return s
}

func (m Markup) bold(s string) string {
	switch m {
	case MarkupHTML:
		return "<b>" + m.escape(s) + "</b>"
	case MarkupMarkdownV2:
		return "*" + m.escape(s) + "*"
	}
	return s
}

func (m Markup) italic(s string) string {
	switch m {
	case MarkupHTML:
		return "<i>" + m.escape(s) + "</i>"
	case MarkupMarkdownV2:
		return "_" + m.escape(s) + "_"
	}
	return s
}

const (
	timestampLayout = "01/02/2006, 03:04:05 PM"
	deviceMaxRunes  = 50
)

// Enriched is a validated booking plus everything the notification needs.
type Enriched struct {
	Request      domain.BookingRequest
	Meta         domain.RequestMeta
	RentItemName string
	SaleItemName string
}

// Formatter renders bookings for the operator chat. It is pure: the
// timestamp comes from Meta.ReceivedAt.
type Formatter struct {
	Location  *time.Location
	ZoneLabel string
	Markup    Markup
	SiteName  string
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

func (f Formatter) zoneLabel() string {
	if f.ZoneLabel != "" {
		return f.ZoneLabel
	}
	return f.location().String()
}

type lineWriter struct {
	b strings.Builder
	m Markup
}

func (w *lineWriter) field(icon, label, value string) {
	w.b.WriteString(icon + " " + w.m.bold(label+":") + " " + value + "\n")
}

func (w *lineWriter) raw(s string) { w.b.WriteString(s) }

func (f Formatter) Format(e Enriched) string {
	m := f.Markup
	req := e.Request
	w := &lineWriter{m: m}

	ts := e.Meta.ReceivedAt.In(f.location()).Format(timestampLayout)

	w.raw("🎧 " + m.bold("New Booking Request") + "\n\n")
	w.field("📅", "Date", m.escape(ts+" ("+f.zoneLabel()+")"))
	w.field("👤", "Name", m.escape(req.FullName))
	w.field("📞", "Phone", m.escape(req.PhoneNumber))
	w.field("🎯", "Action Type", m.escape(req.ActionType))

	if req.ProductName != "" {
		w.field("📦", "Product", m.escape(req.ProductName))
	}
	if !req.RentItem.IsZero() {
		w.field("🔄", "Rent Item", m.escape(e.RentItemName+" (ID: "+req.RentItem.String()+")"))
	}
	if !req.SaleItem.IsZero() {
		w.field("💰", "Sale Item", m.escape(e.SaleItemName+" (ID: "+req.SaleItem.String()+")"))
	}

	if req.ActionType == string(domain.ActionRent) && (req.RentalStartDate != "" || req.RentalEndDate != "") {
		w.raw("\n📅 " + m.bold("Rental Details:") + "\n")
		if req.RentalStartDate != "" {
			w.raw(m.escape("Start Date: "+req.RentalStartDate) + "\n")
		}
		if req.RentalEndDate != "" {
			w.raw(m.escape("End Date: "+req.RentalEndDate) + "\n")
		}
	}

	if e.Meta.IP != "" {
		w.field("🌍", "IP", m.escape(e.Meta.IP))
	}
	if e.Meta.UserAgent != "" {
		w.field("💻", "Device", m.escape(truncateRunes(e.Meta.UserAgent, deviceMaxRunes)+"..."))
	}

	if f.SiteName != "" {
		w.raw("\n🌐 " + m.bold("Source:") + " " + m.escape(f.SiteName))
	}
	w.raw("\n\n" + m.italic("Please contact the customer within 24 hours."))
	return w.b.String()
}

// TestMessage is the connectivity probe sent by the test endpoint.
func (f Formatter) TestMessage(now time.Time) string {
	m := f.Markup
	ts := now.In(f.location()).Format(timestampLayout)
	return "🧪 " + m.bold("Test Message") + "\n\n" +
		m.escape("Telegram integration is working!") + "\n\n" +
		"📅 " + m.escape(ts+" ("+f.zoneLabel()+")")
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
