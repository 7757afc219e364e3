package usecase

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

const whatsAppBaseURL = "https://wa.me/"

// FormatHandoffMessage renders the order summary sent to the kitchen over
// WhatsApp. It has no side effects.
func FormatHandoffMessage(order model.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Novo pedido #%d*\n", order.Number)
	if order.CompanyName != "" {
		fmt.Fprintf(&b, "Empresa: %s\n", order.CompanyName)
	}
	fmt.Fprintf(&b, "Data: %s\n\n", order.CreatedAt.UTC().Format("02/01/2006 15:04 UTC"))

	b.WriteString("*Itens*\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", item.Quantity, item.Name, formatBRL(item.LineTotal()))
	}
	fmt.Fprintf(&b, "Total de unidades: %d\n\n", order.TotalUnits())

	fmt.Fprintf(&b, "Subtotal: %s\n", formatBRL(order.Subtotal))
	if order.DeliveryFee.IsZero() {
		b.WriteString("Entrega: Grátis\n")
	} else {
		fmt.Fprintf(&b, "Entrega: %s\n", formatBRL(order.DeliveryFee))
	}
	fmt.Fprintf(&b, "*Total: %s*\n\n", formatBRL(order.Total))

	fmt.Fprintf(&b, "Endereço: %s\n", order.Address)
	if notes := strings.TrimSpace(order.Notes); notes != "" {
		fmt.Fprintf(&b, "Observações: %s\n", notes)
	}

	return strings.TrimRight(b.String(), "\n")
}

// WhatsAppLink builds a wa.me deep link carrying message. Non-digit
// characters in phone are dropped.
func WhatsAppLink(phone, message string) string {
	digits := digitsOnly(phone)
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppBaseURL + digits + "?text=" + text
}

func formatBRL(d decimal.Decimal) string {
	return "R$ " + strings.Replace(d.StringFixed(2), ".", ",", 1)
}
