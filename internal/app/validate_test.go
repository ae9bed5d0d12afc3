package app_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking_relay/internal/app"
	"booking_relay/internal/domain"
)

var (
	latin    = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZáàâäãåčćéèêëğıłńóôöøřşšúůüýžŽ")
	cyrillic = []rune("абвгдеёжзийклмнопрстуфхцчшщъыьэюяАБВГДЕЁЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯіїєў")
	armenian = []rune("ԱԲԳԴԵԶԷԸԹԺԻԼԽԾԿՀՁՂՃՄՅՆՇՈՉՊՋՌՍՎՏՐՑՒՓՔՕՖաբգդեզէըթժիլխծկհձղճմյնշոչպջռսվտրցւփքօֆև")
	bad      = []rune("0123456789!@#$%^&*_=+.,;:'\"<>/?\\|`~[]{}")
)

func randomName(rng *rand.Rand, alphabet []rune) string {
	var b strings.Builder
	words := 1 + rng.Intn(3)
	for w := 0; w < words; w++ {
		if w > 0 {
			b.WriteRune(' ')
		}
		n := 1 + rng.Intn(10)
		for i := 0; i < n; i++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
	}
	return b.String()
}

func TestValidateName_AcceptsLettersOfSupportedScripts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, alphabet := range [][]rune{latin, cyrillic, armenian} {
		for i := 0; i < 300; i++ {
			name := randomName(rng, alphabet)
			assert.NoErrorf(t, app.ValidateName(name), "name %q", name)
		}
	}
	for _, name := range []string{"Ann Smith", "Анна Смирнова", "Աննա Սմիթ", "  José  Núñez "} {
		assert.NoErrorf(t, app.ValidateName(name), "name %q", name)
	}
}

func TestValidateName_RejectsDigitsAndSymbols(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		name := []rune(randomName(rng, latin))
		pos := rng.Intn(len(name) + 1)
		with := append(append(append([]rune{}, name[:pos]...), bad[rng.Intn(len(bad))]), name[pos:]...)
		assert.Errorf(t, app.ValidateName(string(with)), "name %q", string(with))
	}
	for _, name := range []string{"A1", "Ann-Marie", "O'Neil", "张伟", "Ann 😀"} {
		assert.Errorf(t, app.ValidateName(name), "name %q", name)
	}
}

func TestValidateName_Reasons(t *testing.T) {
	cases := map[string]string{
		"":                      "Full name is required",
		"   ":                   "Full name is required",
		"A1":                    "Name should only contain letters and spaces",
		strings.Repeat("a", 101): "Name must be at most 100 characters",
	}
	for in, want := range cases {
		err := app.ValidateName(in)
		require.Errorf(t, err, "name %q", in)
		assert.Equal(t, want, err.Error())
	}
}

func TestValidatePhone(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	allowed := []rune("0123456789 +-()")
	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(20)
		var b strings.Builder
		b.WriteRune(rune('0' + rng.Intn(10)))
		for j := 0; j < n; j++ {
			b.WriteRune(allowed[rng.Intn(len(allowed))])
		}
		assert.NoErrorf(t, app.ValidatePhone(b.String()), "phone %q", b.String())
	}

	for _, p := range []string{"+374 55 123456", "(010) 55-12-34", "555"} {
		assert.NoError(t, app.ValidatePhone(p))
	}
	for _, p := range []string{"+374 55 12345a", "555.123", "tel:555", "55#5", "٣٤٥"} {
		err := app.ValidatePhone(p)
		require.Errorf(t, err, "phone %q", p)
		assert.Equal(t, "Invalid phone number format", err.Error())
	}
	assert.EqualError(t, app.ValidatePhone(""), "Phone number is required")
}

func TestValidateActionType(t *testing.T) {
	assert.NoError(t, app.ValidateActionType("rent"))
	assert.NoError(t, app.ValidateActionType("buy"))
	assert.EqualError(t, app.ValidateActionType(""), "Action type is required")
	for _, s := range []string{"sale", "RENT", "book", " rent"} {
		assert.EqualErrorf(t, app.ValidateActionType(s), "Invalid action type", "action %q", s)
	}
}

func validRequest() domain.BookingRequest {
	return domain.BookingRequest{
		FullName:    "Ann Smith",
		PhoneNumber: "+374 55 123456",
		ActionType:  "rent",
		RentItem:    domain.NewItemRef("3"),
	}
}

func TestValidator_Validate(t *testing.T) {
	v := app.NewValidator()

	require.Empty(t, v.Validate(validRequest(), "en"))

	t.Run("per-field errors", func(t *testing.T) {
		req := domain.BookingRequest{FullName: "A1", PhoneNumber: "abc", ActionType: "sale"}
		errs := v.Validate(req, "en")
		require.Len(t, errs, 3)
		assert.Equal(t, domain.FieldError{Field: "fullName", Message: "Name should only contain letters and spaces"}, errs[0])
		assert.Equal(t, domain.FieldError{Field: "phoneNumber", Message: "Invalid phone number format"}, errs[1])
		assert.Equal(t, domain.FieldError{Field: "selectedActionType", Message: "Invalid action type"}, errs[2])
	})

	t.Run("missing required fields", func(t *testing.T) {
		errs := v.Validate(domain.BookingRequest{}, "en")
		require.Len(t, errs, 3)
		assert.Equal(t, "Full name is required", errs[0].Message)
		assert.Equal(t, "Phone number is required", errs[1].Message)
		assert.Equal(t, "Action type is required", errs[2].Message)
	})

	t.Run("optional fields", func(t *testing.T) {
		req := validRequest()
		req.SaleItem = domain.NewItemRef("abc")
		req.ProductName = strings.Repeat("x", 201)
		req.RentalStartDate = "18/10/2026"
		req.RentalEndDate = "2026-10-20"
		errs := v.Validate(req, "en")
		require.Len(t, errs, 3)
		assert.True(t, errs.Has("selectedSaleItem"))
		assert.True(t, errs.Has("productName"))
		assert.True(t, errs.Has("rentalStartDate"))
		assert.False(t, errs.Has("rentalEndDate"))
	})

	t.Run("dates are not ordered", func(t *testing.T) {
		req := validRequest()
		req.RentalStartDate = "2026-10-20"
		req.RentalEndDate = "2026-10-01T10:00:00Z"
		assert.Empty(t, v.Validate(req, "en"))
	})

	t.Run("localized", func(t *testing.T) {
		req := validRequest()
		req.FullName = ""
		errs := v.Validate(req, "ru")
		require.Len(t, errs, 1)
		assert.Equal(t, "Укажите имя и фамилию", errs[0].Message)
	})
}
