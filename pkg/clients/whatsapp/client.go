package whatsapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/Josuegarciaaa/Rifa-frigo/pkg/models"
)

// Payment details shown in the reservation summary.
const (
	paymentCard   = "4910897092374420 (HSBC)"
	paymentHolder = "Josue Francisco Garcia Cepeda"
	drawDate      = "25 de diciembre de 2025 a las 3:00 PM CST"
)

// Client defines the interface for building outbound WhatsApp notifications
type Client interface {
	ReservationLink(numbers []int, claimant models.Claimant, unitPrice int) string
}

type clientImpl struct {
	phone string
}

// NewClient creates a new WhatsApp deep-link builder targeting one phone number
func NewClient(phone string) Client {
	return &clientImpl{phone: phone}
}

// ReservationLink formats the payment summary for a set of reserved numbers
// and wraps it in a wa.me link. Delivery is entirely up to the participant
// opening the link; nothing here waits on or verifies it.
func (c *clientImpl) ReservationLink(numbers []int, claimant models.Claimant, unitPrice int) string {
	numbersList := strings.Join(lo.Map(numbers, func(n int, _ int) string {
		return strconv.Itoa(n)
	}), ", ")
	total := len(numbers) * unitPrice

	message := fmt.Sprintf(`*SOLICITUD PARA SEPARAR BOLETOS*

*Datos del participante:*
• Nombre: %s
• Teléfono: %s
• Números solicitados: %s

*Información de pago:*
• Precio por boleto: $%d
• Cantidad de boletos: %d
• Total a pagar: $%d
• Concepto: "numero(s) separado"
• Tarjeta: %s
• Nombre: %s

Sorteo: %s

*IMPORTANTE:* Envía el comprobante de pago a este mismo número después de realizar la transferencia/deposito.

¡Gracias por participar!`,
		claimant.Name, claimant.Phone, numbersList,
		unitPrice, len(numbers), total,
		paymentCard, paymentHolder, drawDate)

	return fmt.Sprintf("https://wa.me/%s?text=%s", c.phone, url.QueryEscape(message))
}
