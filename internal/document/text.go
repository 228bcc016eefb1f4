package document

import (
	"fmt"
	"strings"

	"github.com/Simplici0/poolsmart/internal/export"
)

// RenderText renders the quote as plain text, suitable for email bodies and
// the text download.
func RenderText(d Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - %s\n", d.Company.Name, d.title())
	fmt.Fprintf(&b, "Fecha: %s\n\n", export.FormatDate(d.IssuedAt))

	b.WriteString("Cliente:\n")
	fmt.Fprintf(&b, "- Nombre: %s\n", d.clientName())
	if d.Job.Client.Email != "" {
		fmt.Fprintf(&b, "- Email: %s\n", d.Job.Client.Email)
	}
	if d.Job.Client.Phone != "" {
		fmt.Fprintf(&b, "- Teléfono: %s\n", d.Job.Client.Phone)
	}
	fmt.Fprintf(&b, "Tipo de trabajo: %s\n\n", d.Job.WorkType.Label())

	dims := d.Job.Dimensions
	geo := d.Quote.Geometry
	b.WriteString("Datos de la piscina:\n")
	fmt.Fprintf(&b, "- Forma: %s\n", dims.Shape)
	fmt.Fprintf(&b, "- Medidas: %s x %s x %s m\n", number(dims.Length), number(dims.Width), number(dims.Depth))
	fmt.Fprintf(&b, "- Volumen: %s m³\n", number(geo.Volume))
	fmt.Fprintf(&b, "- Área cerámica: %s m²\n", number(geo.CeramicArea))
	fmt.Fprintf(&b, "- Área piso térmico: %s m²\n", number(geo.ThermalFloorArea))

	for _, s := range d.sections() {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", s.title)
		for _, item := range s.items {
			fmt.Fprintf(&b, "- %s: %s %s x %s = %s\n",
				item.Description, number(item.Quantity), item.Unit, Money(item.UnitPrice), Money(item.Total))
		}
	}

	fmt.Fprintf(&b, "\nSubtotal: %s %s\n", number(d.Quote.Subtotal), export.Currency)
	if d.Quote.Discount > 0 {
		fmt.Fprintf(&b, "Descuento: %s %s\n", number(d.Quote.Discount), export.Currency)
	}
	fmt.Fprintf(&b, "Total: %s %s\n", number(d.Quote.Total), export.Currency)

	b.WriteString("\nSupuestos:\n")
	for _, a := range d.assumptions() {
		fmt.Fprintf(&b, "- %s\n", a)
	}

	if notes := strings.TrimSpace(d.Job.Notes); notes != "" {
		fmt.Fprintf(&b, "\nNotas adicionales: %s\n", notes)
	}
	if d.Company.Handle != "" {
		fmt.Fprintf(&b, "\n%s\n", d.Company.Handle)
	}

	return b.String()
}
