package receipt

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatKRW renders a won amount with grouping, e.g. ₩12,345.
func FormatKRW(amount int64) string {
	if amount < 0 {
		return "-" + FormatKRW(-amount)
	}
	return message.NewPrinter(language.Korean).Sprintf("₩%d", amount)
}
