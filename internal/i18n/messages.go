package i18n

const (
	LangEN = "en"
	LangRU = "ru"
	LangHY = "hy"
)

// Message keys.
const (
	NameRequired        = "name_required"
	NameTooLong         = "name_too_long"
	NameInvalid         = "name_invalid"
	PhoneRequired       = "phone_required"
	PhoneInvalid        = "phone_invalid"
	ActionRequired      = "action_required"
	ActionInvalid       = "action_invalid"
	ItemIDInvalid       = "item_id_invalid"
	ProductNameTooLong  = "product_name_too_long"
	DateInvalid         = "date_invalid"
	BodyInvalid         = "body_invalid"
	BookingSent         = "booking_sent"
	BookingFailed       = "booking_failed"
	ConfigurationError  = "configuration_error"
	TestSent            = "test_sent"
	TooManyRequests     = "too_many_requests"
	EndpointNotFound    = "endpoint_not_found"
	MethodNotAllowed    = "method_not_allowed"
	InternalServerError = "internal_server_error"
)

//nolint:gochecknoglobals // immutable translation table
var messages = map[string]map[string]string{
	LangEN: {
		NameRequired:        "Full name is required",
		NameTooLong:         "Name must be at most 100 characters",
		NameInvalid:         "Name should only contain letters and spaces",
		PhoneRequired:       "Phone number is required",
		PhoneInvalid:        "Invalid phone number format",
		ActionRequired:      "Action type is required",
		ActionInvalid:       "Invalid action type",
		ItemIDInvalid:       "Item id must be numeric",
		ProductNameTooLong:  "Product name must be at most 200 characters",
		DateInvalid:         "Date must be in ISO 8601 format",
		BodyInvalid:         "Invalid JSON body",
		BookingSent:         "Booking request sent successfully!",
		BookingFailed:       "Failed to process booking request",
		ConfigurationError:  "Server configuration error",
		TestSent:            "Test message sent successfully!",
		TooManyRequests:     "Too many requests from this IP, please try again later.",
		EndpointNotFound:    "Endpoint not found",
		MethodNotAllowed:    "Method not allowed",
		InternalServerError: "Internal server error",
	},
	LangRU: {
		NameRequired:        "Укажите имя и фамилию",
		NameTooLong:         "Имя должно содержать не более 100 символов",
		NameInvalid:         "Имя может содержать только буквы и пробелы",
		PhoneRequired:       "Укажите номер телефона",
		PhoneInvalid:        "Неверный формат номера телефона",
		ActionRequired:      "Укажите тип заявки",
		ActionInvalid:       "Неверный тип заявки",
		ItemIDInvalid:       "Идентификатор товара должен быть числом",
		ProductNameTooLong:  "Название товара должно содержать не более 200 символов",
		DateInvalid:         "Дата должна быть в формате ISO 8601",
		BodyInvalid:         "Неверный формат запроса",
		BookingSent:         "Заявка успешно отправлена!",
		BookingFailed:       "Не удалось обработать заявку",
		ConfigurationError:  "Ошибка конфигурации сервера",
		TooManyRequests:     "Слишком много запросов, попробуйте позже.",
		EndpointNotFound:    "Адрес не найден",
		InternalServerError: "Внутренняя ошибка сервера",
	},
	LangHY: {
		NameRequired:        "Անուն ազգանունը պարտադիր է",
		NameTooLong:         "Անունը պետք է պարունակի առավելագույնը 100 նիշ",
		NameInvalid:         "Անունը պետք է պարունակի միայն տառեր և բացատներ",
		PhoneRequired:       "Հեռախոսահամարը պարտադիր է",
		PhoneInvalid:        "Հեռախոսահամարի սխալ ձևաչափ",
		ActionRequired:      "Հայտի տեսակը պարտադիր է",
		ActionInvalid:       "Հայտի սխալ տեսակ",
		BookingSent:         "Հայտը հաջողությամբ ուղարկվեց!",
		BookingFailed:       "Չհաջողվեց մշակել հայտը",
		ConfigurationError:  "Սերվերի կարգավորման սխալ",
		TooManyRequests:     "Չափազանց շատ հարցումներ, փորձեք ավելի ուշ։",
		InternalServerError: "Սերվերի ներքին սխալ",
	},
}
