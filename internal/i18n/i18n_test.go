package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"booking_relay/internal/i18n"
)

func TestPick(t *testing.T) {
	cases := []struct {
		query, header, want string
	}{
		{"", "", "en"},
		{"hy", "ru-RU", "hy"},
		{"HY", "", "hy"},
		{"fr", "ru-RU,ru;q=0.9,en;q=0.8", "ru"},
		{"", "fr-FR, hy;q=0.5", "hy"},
		{"", "de, fr", "en"},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, i18n.Pick(c.query, c.header), "query=%q header=%q", c.query, c.header)
	}
}

func TestT_FallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "Full name is required", i18n.T("en", i18n.NameRequired))
	assert.Equal(t, "Укажите имя и фамилию", i18n.T("ru", i18n.NameRequired))
	// Armenian has no entry for the date message yet.
	assert.Equal(t, "Date must be in ISO 8601 format", i18n.T("hy", i18n.DateInvalid))
	assert.Equal(t, "Full name is required", i18n.T("xx", i18n.NameRequired))
	assert.Equal(t, "no_such_key", i18n.T("en", "no_such_key"))
}
