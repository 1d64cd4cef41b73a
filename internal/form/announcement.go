package form

import (
	"fmt"
	"strings"
	"unicode"
)

// Announcement field names, as the backend expects them.
const (
	FieldCustomerName = "customer_name"
	FieldPhoneNumber  = "phone_number"
	FieldGuideNumber  = "guide_number"
)

// AnnouncementFields lists the announcement form fields in display order.
var AnnouncementFields = []string{FieldCustomerName, FieldPhoneNumber, FieldGuideNumber}

// AnnouncementValidator checks a package announcement the same way the
// backend does, so most mistakes are caught before the round trip.
func AnnouncementValidator(data map[string]any) Result {
	errs := map[string]string{}

	name := strings.TrimSpace(text(data[FieldCustomerName]))
	switch {
	case name == "":
		errs[FieldCustomerName] = "El nombre del cliente es requerido"
	case len([]rune(name)) < 2:
		errs[FieldCustomerName] = "El nombre debe tener al menos 2 caracteres"
	}

	digits := 0
	for _, r := range text(data[FieldPhoneNumber]) {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits < 7 {
		errs[FieldPhoneNumber] = "El teléfono debe tener al menos 7 dígitos"
	}

	guide := strings.TrimSpace(text(data[FieldGuideNumber]))
	switch {
	case guide == "":
		errs[FieldGuideNumber] = "El número de guía es requerido"
	case len([]rune(guide)) < 3:
		errs[FieldGuideNumber] = "El número de guía debe tener al menos 3 caracteres"
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// NormalizeAnnouncement trims the fields and upper-cases the guide number.
func NormalizeAnnouncement(data map[string]any) map[string]any {
	out := clone(data)
	out[FieldCustomerName] = strings.TrimSpace(text(data[FieldCustomerName]))
	out[FieldPhoneNumber] = strings.TrimSpace(text(data[FieldPhoneNumber]))
	out[FieldGuideNumber] = strings.ToUpper(strings.TrimSpace(text(data[FieldGuideNumber])))
	return out
}

func text(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
