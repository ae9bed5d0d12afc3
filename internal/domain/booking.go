package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type ActionType string

const (
	ActionRent ActionType = "rent"
	ActionBuy  ActionType = "buy"
)

func ParseActionType(s string) (ActionType, bool) {
	switch ActionType(s) {
	case ActionRent, ActionBuy:
		return ActionType(s), true
	}
	return "", false
}

// ItemRef is an optional catalog id. The booking form sends it either as a
// JSON string ("3") or as a number (3).
type ItemRef struct{ raw string }

func NewItemRef(s string) ItemRef { return ItemRef{raw: strings.TrimSpace(s)} }

func (r ItemRef) IsZero() bool   { return r.raw == "" }
func (r ItemRef) String() string { return r.raw }

func (r *ItemRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		r.raw = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		r.raw = strings.TrimSpace(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id must be a string or a number: %w", err)
	}
	r.raw = n.String()
	return nil
}

func (r ItemRef) MarshalJSON() ([]byte, error) {
	if r.raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.raw)
}

// BookingRequest is the transient booking form payload. It lives for one
// request and is never stored.
type BookingRequest struct {
	FullName        string  `json:"fullName" validate:"required,personname"`
	PhoneNumber     string  `json:"phoneNumber" validate:"required,phone"`
	ActionType      string  `json:"selectedActionType" validate:"required,actiontype"`
	RentItem        ItemRef `json:"selectedRentItem" validate:"catalogid"`
	SaleItem        ItemRef `json:"selectedSaleItem" validate:"catalogid"`
	ProductName     string  `json:"productName" validate:"omitempty,max=200"`
	RentalStartDate string  `json:"rentalStartDate" validate:"omitempty,isodate"`
	RentalEndDate   string  `json:"rentalEndDate" validate:"omitempty,isodate"`
}

// Normalize trims the free-text fields in place.
func (b *BookingRequest) Normalize() {
	b.FullName = strings.TrimSpace(b.FullName)
	b.PhoneNumber = strings.TrimSpace(b.PhoneNumber)
	b.ActionType = strings.TrimSpace(b.ActionType)
	b.ProductName = strings.TrimSpace(b.ProductName)
	b.RentalStartDate = strings.TrimSpace(b.RentalStartDate)
	b.RentalEndDate = strings.TrimSpace(b.RentalEndDate)
}

// RequestMeta is the enrichment captured from the HTTP request.
type RequestMeta struct {
	IP         string
	UserAgent  string
	ReceivedAt time.Time
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Has(field string) bool {
	for _, fe := range v {
		if fe.Field == field {
			return true
		}
	}
	return false
}
