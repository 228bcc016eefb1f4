package document

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/pricing"
)

var (
	grey     = &props.Color{Red: 100, Green: 100, Blue: 100}
	darkBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	white    = &props.Color{Red: 255, Green: 255, Blue: 255}
	stripeBg = &props.Color{Red: 245, Green: 245, Blue: 245}
)

// RenderPDF renders the quote as an A4 PDF and returns its bytes.
func RenderPDF(d Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, d)
	addClientBlock(m, d)
	addPoolBlock(m, d)
	for _, s := range d.sections() {
		if len(s.items) == 0 {
			continue
		}
		addItemsTable(m, s)
	}
	addTotals(m, d)
	addAssumptions(m, d)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, d Document) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(d.Company.Name, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left}),
			),
			col.New(6).Add(
				text.New("COTIZACIÓN", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Color: darkBg}),
			),
		),
		row.New(8).Add(
			col.New(6).Add(
				text.New(d.Company.Handle, props.Text{Size: 8, Align: align.Left, Color: grey}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Ref: %s | %s", d.Reference, export.FormatDate(d.IssuedAt)), props.Text{
					Size:  9,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)
	m.AddRows(row.New(3))
}

func labelValue(label, value string) core.Row {
	return row.New(5).Add(
		col.New(3).Add(text.New(label, props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: grey})),
		col.New(9).Add(text.New(value, props.Text{Size: 8, Align: align.Left})),
	)
}

func addClientBlock(m core.Maroto, d Document) {
	rows := []core.Row{
		labelValue("CLIENTE", d.clientName()),
	}
	if d.Job.Client.Email != "" {
		rows = append(rows, labelValue("EMAIL", d.Job.Client.Email))
	}
	if d.Job.Client.Phone != "" {
		rows = append(rows, labelValue("TELÉFONO", d.Job.Client.Phone))
	}
	rows = append(rows, labelValue("TIPO DE TRABAJO", d.Job.WorkType.Label()), row.New(3))
	m.AddRows(rows...)
}

func addPoolBlock(m core.Maroto, d Document) {
	dims := d.Job.Dimensions
	geo := d.Quote.Geometry
	m.AddRows(
		labelValue("FORMA", string(dims.Shape)),
		labelValue("MEDIDAS", fmt.Sprintf("%s x %s x %s m", number(dims.Length), number(dims.Width), number(dims.Depth))),
		labelValue("VOLUMEN", number(geo.Volume)+" m³"),
		labelValue("ÁREA CERÁMICA", number(geo.CeramicArea)+" m²"),
		labelValue("ÁREA PISO TÉRMICO", number(geo.ThermalFloorArea)+" m²"),
		row.New(4),
	)
}

func addItemsTable(m core.Maroto, s section) {
	headerText := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: white}
	headerLeft := headerText
	headerLeft.Align = align.Left
	headerCell := &props.Cell{BackgroundColor: darkBg}

	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(text.New(s.title, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
		),
		row.New(7).Add(
			col.New(5).Add(text.New("Descripción", headerLeft)).WithStyle(headerCell),
			col.New(2).Add(text.New("Cantidad", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Unidad", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Precio", headerText)).WithStyle(headerCell),
			col.New(2).Add(text.New("Total", headerText)).WithStyle(headerCell),
		),
	)

	for i, item := range s.items {
		m.AddRows(itemRow(i, item))
	}
	m.AddRows(row.New(3))
}

func itemRow(i int, item pricing.LineItem) core.Row {
	cell := props.Text{Size: 8, Align: align.Center}
	left := cell
	left.Align = align.Left
	right := cell
	right.Align = align.Right

	c1 := col.New(5).Add(text.New(item.Description, left))
	c2 := col.New(2).Add(text.New(number(item.Quantity), cell))
	c3 := col.New(1).Add(text.New(item.Unit, cell))
	c4 := col.New(2).Add(text.New(Money(item.UnitPrice), right))
	c5 := col.New(2).Add(text.New(Money(item.Total), right))
	if i%2 == 1 {
		style := &props.Cell{BackgroundColor: stripeBg}
		c1, c2, c3, c4, c5 = c1.WithStyle(style), c2.WithStyle(style), c3.WithStyle(style), c4.WithStyle(style), c5.WithStyle(style)
	}
	return row.New(6).Add(c1, c2, c3, c4, c5)
}

func addTotals(m core.Maroto, d Document) {
	total := func(label string, v float64, style fontstyle.Type) core.Row {
		return row.New(6).Add(
			col.New(8),
			col.New(2).Add(text.New(label, props.Text{Size: 9, Style: style, Align: align.Right})),
			col.New(2).Add(text.New(Money(v)+" "+export.Currency, props.Text{Size: 9, Style: style, Align: align.Right})),
		)
	}
	rows := []core.Row{total("Subtotal", d.Quote.Subtotal, fontstyle.Normal)}
	if d.Quote.Discount > 0 {
		rows = append(rows, total("Descuento", d.Quote.Discount, fontstyle.Normal))
	}
	rows = append(rows, total("Total", d.Quote.Total, fontstyle.Bold), row.New(4))
	m.AddRows(rows...)
}

func addAssumptions(m core.Maroto, d Document) {
	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New("Supuestos", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
	))
	for _, a := range d.assumptions() {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New("- "+a, props.Text{Size: 7, Align: align.Left, Color: grey})),
		))
	}
	if d.Job.Notes != "" {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New("Notas: "+d.Job.Notes, props.Text{Size: 7, Align: align.Left})),
		))
	}
}
