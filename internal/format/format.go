// Package format holds the small display helpers the package screens use:
// phone numbers, dates, money, tracking numbers and package status labels.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/elclub/papyrus/internal/colombia"
)

var nonDigit = regexp.MustCompile(`\D`)

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// Phone renders a ten digit number as "(300) 123-4567". Anything else is
// returned unchanged.
func Phone(phone string) string {
	if phone == "" {
		return ""
	}
	d := Digits(phone)
	if len(d) != 10 {
		return phone
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

// ColombianPhone renders a mobile number as "+57 300 123 4567", accepting
// it with or without the country code.
func ColombianPhone(phone string) string {
	d := Digits(phone)
	switch {
	case len(d) == 10:
		return fmt.Sprintf("+57 %s %s %s", d[:3], d[3:6], d[6:])
	case len(d) == 12 && strings.HasPrefix(d, "57"):
		return fmt.Sprintf("+57 %s %s %s", d[2:5], d[5:8], d[8:])
	}
	return d
}

// Date renders input as "15/1/2024" (short) or "15 de enero de 2024"
// (long) in Colombia local time. Empty input renders as "".
func Date(input any, layout string) string {
	if s, ok := input.(string); ok && strings.TrimSpace(s) == "" {
		return ""
	}
	if input == nil {
		return ""
	}
	t, err := colombia.ToColombiaLocal(input)
	if err != nil {
		return colombia.FormatDateOnly(input)
	}
	if layout == "long" {
		return colombia.Format(t, colombia.Options{Day: true, Month: true, Year: true})
	}
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// grouped renders n with English thousands separators ("1,234,567").
func grouped(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Currency renders amount with thousands separators. COP has no decimals.
func Currency(amount float64, currency string) string {
	if currency == "" || strings.EqualFold(currency, "COP") {
		return "$" + grouped(int64(math.Round(amount)))
	}
	cents := int64(math.Round(math.Abs(amount) * 100))
	out := grouped(cents / 100) + fmt.Sprintf(".%02d", cents%100)
	if amount < 0 && cents > 0 {
		out = "-" + out
	}
	return currency + " " + out
}

// TrackingNumber builds "PAP" + YYYYMMDD (Colombia date) + 8 upper-case
// characters taken from a random UUID.
func TrackingNumber(now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "PAP" + now.In(colombia.Zone).Format("20060102") + id[:8]
}

// Package status values the backend uses.
const (
	StatusAnnounced = "anunciado"
	StatusReceived  = "recibido"
	StatusInTransit = "en_transito"
	StatusDelivered = "entregado"
	StatusCancelled = "cancelado"
)

var statusLabels = map[string]string{
	StatusAnnounced: "Anunciado",
	StatusReceived:  "Recibido",
	StatusInTransit: "En tránsito",
	StatusDelivered: "Entregado",
	StatusCancelled: "Cancelado",
}

var statusIcons = map[string]string{
	StatusAnnounced: "📦",
	StatusReceived:  "📥",
	StatusInTransit: "🚚",
	StatusDelivered: "✅",
	StatusCancelled: "❌",
}

// StatusLabel returns the display label of a package status.
func StatusLabel(status string) string {
	if l, ok := statusLabels[strings.ToLower(status)]; ok {
		return l
	}
	return status
}

func StatusIcon(status string) string {
	if i, ok := statusIcons[strings.ToLower(status)]; ok {
		return i
	}
	return "❓"
}
