package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^(\+49|0049|0)?[1-9]\d{6,14}$`)
	vatPattern   = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{2,12}$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")
)

// NormalizeURL trims the input, prepends https:// when no http(s) scheme is
// present and strips one trailing slash.
func NormalizeURL(raw string) string {
	normalized := strings.TrimSpace(raw)
	if !strings.HasPrefix(normalized, "http://") && !strings.HasPrefix(normalized, "https://") {
		normalized = "https://" + normalized
	}
	if !strings.HasSuffix(normalized, "://") {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}

// IsValidURL reports whether raw, once normalized, is an absolute http(s) URL with a host.
func IsValidURL(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

func cleanPhone(phone string) string {
	return phoneNoise.Replace(phone)
}

// IsValidPhone accepts German style numbers with optional +49/0049/0 prefix.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(cleanPhone(phone))
}

// FormatPhoneNumber returns the canonical +49 display form.
func FormatPhoneNumber(phone string) string {
	cleaned := cleanPhone(phone)
	switch {
	case strings.HasPrefix(cleaned, "0049"):
		return "+49" + cleaned[4:]
	case strings.HasPrefix(cleaned, "0"):
		return "+49" + cleaned[1:]
	}
	return cleaned
}

// NormalizeVatID removes whitespace and upper-cases the ID.
func NormalizeVatID(vat string) string {
	return strings.ToUpper(strings.Join(strings.Fields(vat), ""))
}

func IsValidVatID(vat string) bool {
	return vatPattern.MatchString(NormalizeVatID(vat))
}

func validateLeadURL(fl validator.FieldLevel) bool {
	return IsValidURL(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func validateVatID(fl validator.FieldLevel) bool {
	return IsValidVatID(fl.Field().String())
}
