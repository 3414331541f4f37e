package sales

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone returns phone in E.164 form when it is a valid number for
// region. Anything else is returned trimmed but otherwise untouched.
func NormalizePhone(phone, region string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || region == "" {
		return phone
	}

	num, err := libphonenumber.Parse(phone, strings.ToUpper(region))
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return phone
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
