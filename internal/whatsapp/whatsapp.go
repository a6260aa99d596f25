// Package whatsapp builds outbound WhatsApp links and renders the
// configurable approach message.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/gestorvip/fila/internal/models"
)

// Placeholder is the token substituted with the client's name.
const Placeholder = "{nome}"

// RenderTemplate replaces the first occurrence of the placeholder with name.
// The name is inserted verbatim; templates are operator-controlled.
func RenderTemplate(template, name string) string {
	return strings.Replace(template, Placeholder, name, 1)
}

// Link builds the web deep link: https://wa.me/<cc><digits>?text=<encoded>.
// Non-digits are stripped from phone before the country code is prefixed.
func Link(countryCode, phone, message string) string {
	return "https://wa.me/" + countryCode + models.Digits(phone) + "?text=" + url.QueryEscape(message)
}

// NativeLink builds the app deep link tried before falling back to the web
// link: whatsapp://send?phone=<digits>&text=<encoded>.
func NativeLink(countryCode, phone, message string) string {
	return "whatsapp://send?phone=" + countryCode + models.Digits(phone) + "&text=" + url.QueryEscape(message)
}
