package checkout

import (
	"fmt"
	"net/url"
	"strings"
)

// formatRupiah renders minor-unit-free IDR amounts with dot separators,
// matching how Indonesian customers read prices (29800 -> "29.800").
func formatRupiah(amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	if amount < 0 {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	if amount < 0 {
		return "-" + b.String()
	}
	return b.String()
}

// waDigits strips everything but digits so "+62 811-234" becomes "62811234".
func waDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// buildWhatsAppLink produces the wa.me handoff the customer opens after
// checkout to arrange payment with the shop admin.
func buildWhatsAppLink(adminNumber, orderCode, customerName string, total int64) string {
	message := "Halo Flamoure! Saya sudah melakukan checkout.\n\n" +
		"*Order Code:* " + orderCode + "\n" +
		"*Nama:* " + customerName + "\n" +
		"*Total:* Rp " + formatRupiah(total) + "\n\n" +
		"Mohon instruksi pembayarannya."
	return "https://wa.me/" + waDigits(adminNumber) + "?text=" + url.QueryEscape(message)
}
