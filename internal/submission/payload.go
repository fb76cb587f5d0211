package submission

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"nordclean/internal/pricing"
	"nordclean/internal/session"
)

// Contact holds what the visitor typed into the contact fields. The values
// are relayed as entered.
type Contact struct {
	Name       string
	Email      string
	Phone      string
	Address    string
	PostalCode string
}

// Form field names expected by the form endpoint.
const (
	FieldAccessKey    = "access_key"
	FieldSubject      = "subject"
	FieldFromName     = "from_name"
	FieldMessage      = "message"
	FieldName         = "Namn"
	FieldEmail        = "Email"
	FieldPhone        = "Telefon"
	FieldAddress      = "Adress"
	FieldPostalCode   = "Postnummer"
	FieldCleaningType = "typ_av_städ"
	FieldFrequency    = "Frekvens"
	FieldHomeSize     = "kvadratmeter"
	FieldPrice        = "prisförslag"
	FieldCaptcha      = "h-captcha-response"
)

const fromName = "Nordclean Priskalkyl"

// BuildPayload packages a selection and contact details into form fields.
func BuildPayload(accessKey string, sel session.Selection, c Contact, captchaToken string) url.Values {
	form := url.Values{}
	form.Set(FieldAccessKey, accessKey)
	form.Set(FieldSubject, fmt.Sprintf("Ny prisförfrågan: %s, %s", sel.CleaningType.Label(), sel.Price))
	form.Set(FieldFromName, fromName)

	form.Set(FieldName, strings.TrimSpace(c.Name))
	form.Set(FieldEmail, strings.TrimSpace(c.Email))
	form.Set(FieldPhone, strings.TrimSpace(c.Phone))
	form.Set(FieldAddress, strings.TrimSpace(c.Address))
	form.Set(FieldPostalCode, strings.TrimSpace(c.PostalCode))

	form.Set(FieldCleaningType, string(sel.CleaningType))
	form.Set(FieldFrequency, string(sel.Frequency))
	form.Set(FieldHomeSize, sel.HomeSize)
	form.Set(FieldPrice, PriceValue(sel.Price))
	form.Set(FieldMessage, Summary(sel))

	if captchaToken != "" {
		form.Set(FieldCaptcha, captchaToken)
	}
	return form
}

// Summary is the one-line description of a selection used in the message body.
func Summary(sel session.Selection) string {
	return fmt.Sprintf("Typ av städ: %s, Hur ofta: %s, Kvadratmeter: %s, Prisförslag: %s",
		sel.CleaningType, sel.Frequency, sel.HomeSize, sel.Price)
}

// PriceValue is the bare price field value: the amount in kronor, the quote
// marker, or "0" before anything is priced.
func PriceValue(r pricing.Result) string {
	if kr, ok := r.Amount(); ok {
		return strconv.Itoa(kr)
	}
	if r.QuoteRequired() {
		return pricing.QuoteText
	}
	return "0"
}
