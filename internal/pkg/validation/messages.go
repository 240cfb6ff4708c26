package validation

// messages maps "<Struct>.<field>.<tag>" or "<field>.<tag>" to the text shown
// next to the form field.
var messages = map[string]string{
	"companyUrl.required": "Website URL ist erforderlich",
	"companyUrl.leadurl":  "Bitte geben Sie eine gültige URL ein",

	"jobTitle.min": "Jobtitel muss mindestens 3 Zeichen haben",
	"jobTitle.max": "Jobtitel darf maximal 100 Zeichen haben",

	"contactEmail.required": "E-Mail ist erforderlich",
	"contactEmail.email":    "Bitte geben Sie eine gültige E-Mail-Adresse ein",
	"email.required":        "E-Mail ist erforderlich",
	"email.email":           "Bitte geben Sie eine gültige E-Mail-Adresse ein",

	"contactPhone.phone": "Bitte geben Sie eine gültige Telefonnummer ein",

	"planType.required": "Bitte wählen Sie einen Plan",
	"planType.oneof":    "Bitte wählen Sie einen Plan",

	"companyName.required": "Firmenname ist erforderlich",
	"companyName.min":      "Firmenname ist erforderlich",
	"companyName.max":      "Firmenname darf maximal 200 Zeichen haben",
	"vatId.vatid":          "Ungültige USt-IdNr. Format",
	"street.min":           "Straße ist erforderlich",
	"city.min":             "Stadt ist erforderlich",
	"postalCode.min":       "PLZ ist erforderlich",
	"postalCode.max":       "Ungültige PLZ",
	"country.min":          "Land ist erforderlich",
	"paymentMethod.oneof":  "Bitte wählen Sie eine Zahlungsart",

	"aboutText.required": "Beschreibung muss mindestens 50 Zeichen haben",
	"aboutText.min":      "Beschreibung muss mindestens 50 Zeichen haben",
	"aboutText.max":      "Beschreibung darf maximal 2000 Zeichen haben",
	"values.min":         "Mindestens ein Wert ist erforderlich",

	"CompanyProfile.benefits.min": "Mindestens ein Benefit ist erforderlich",
	"JobAdvert.benefits.min":      "Mindestens 2 Benefits sind erforderlich",

	"title.required":          "Jobtitel ist erforderlich",
	"title.min":               "Jobtitel ist erforderlich",
	"location.required":       "Standort ist erforderlich",
	"location.min":            "Standort ist erforderlich",
	"employmentType.required": "Bitte wählen Sie eine Anstellungsart",
	"employmentType.oneof":    "Bitte wählen Sie eine Anstellungsart",
	"introduction.required":   "Einleitung muss mindestens 50 Zeichen haben",
	"introduction.min":        "Einleitung muss mindestens 50 Zeichen haben",
	"introduction.max":        "Einleitung darf maximal 1000 Zeichen haben",
	"responsibilities.min":    "Mindestens 3 Aufgaben sind erforderlich",
	"requirements.min":        "Mindestens 2 Anforderungen sind erforderlich",
}

const (
	msgEmptyEntry = "Einträge dürfen nicht leer sein"
	msgInvalid    = "Ungültige Eingabe"
)
