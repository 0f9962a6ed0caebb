package privacy

import (
	"strings"
)

// MaskPhoneNumber masks a phone number showing only the last 4 digits.
// Example: "+1234567890" -> "+******7890"
func MaskPhoneNumber(phone string) string {
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if len(phone) == 1 {
			return phone
		}
		if len(phone) <= 5 {
			return "+" + strings.Repeat("*", len(phone)-1)
		}
		return "+" + strings.Repeat("*", len(phone)-5) + phone[len(phone)-4:]
	}

	if len(phone) <= 4 {
		return strings.Repeat("*", len(phone))
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}

// MaskProviderSID masks a carrier message identifier while keeping a
// recognizable tail for log correlation.
func MaskProviderSID(sid string) string {
	if sid == "" {
		return ""
	}

	if len(sid) <= 8 {
		return strings.Repeat("*", len(sid))
	}
	return strings.Repeat("*", len(sid)-8) + sid[len(sid)-8:]
}
