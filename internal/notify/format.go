package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"nordclean/internal/submission"
)

// NormalizePhoneNumber rewrites Swedish numbers to +46 form. Other numbers
// keep their digits and a leading + if they had one.
func NormalizePhoneNumber(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	switch {
	case strings.HasPrefix(cleaned, "0046"):
		return "+46" + strings.TrimPrefix(cleaned[4:], "0")
	case strings.HasPrefix(cleaned, "46") && len(cleaned) >= 10 && len(cleaned) <= 12:
		return "+" + cleaned
	case strings.HasPrefix(cleaned, "0") && len(cleaned) >= 8 && len(cleaned) <= 10:
		return "+46" + cleaned[1:]
	}

	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + cleaned
	}
	return cleaned
}

// FormatPhoneNumber formats Swedish mobile numbers as +46 70 123 45 67.
func FormatPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "+467") && len(phone) == 12 {
		return fmt.Sprintf("%s %s %s %s %s",
			phone[:3],
			phone[3:5],
			phone[5:8],
			phone[8:10],
			phone[10:12])
	}
	return phone
}

// FormatLeadNotification renders a lead as an HTML Telegram message.
func FormatLeadNotification(lead submission.Lead) string {
	sel := lead.Selection
	c := lead.Contact

	size := sel.HomeSize
	if strings.TrimSpace(size) == "" {
		size = "-"
	}

	return fmt.Sprintf(
		"🧹 <b>Ny prisförfrågan</b>\n\n"+
			"Typ: %s\n"+
			"Hur ofta: %s\n"+
			"Kvadratmeter: %s\n"+
			"Prisförslag: <b>%s</b>\n"+
			"──────────────────\n"+
			"Namn: %s\n"+
			"Telefon: %s\n"+
			"Email: %s\n"+
			"Adress: %s, %s\n"+
			"Skickad: %s",
		sel.CleaningType.Label(),
		sel.Frequency.Label(),
		html.EscapeString(size),
		html.EscapeString(sel.Price.String()),
		html.EscapeString(c.Name),
		html.EscapeString(FormatPhoneNumber(NormalizePhoneNumber(c.Phone))),
		html.EscapeString(c.Email),
		html.EscapeString(c.Address),
		html.EscapeString(c.PostalCode),
		lead.SentAt.Format("2006-01-02 15:04"),
	)
}
