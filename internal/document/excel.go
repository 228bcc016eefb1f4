package document

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/poolsmart/internal/export"
	"github.com/Simplici0/poolsmart/internal/pricing"
)

// SheetName is the worksheet holding the quote.
const SheetName = "Cotización"

// RenderExcel renders the quote as an xlsx workbook with one sheet. Amounts
// are written as numbers rounded to cents.
func RenderExcel(d Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	widths := map[string]float64{"A": 38, "B": 12, "C": 10, "D": 14, "E": 16}
	for col, w := range widths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#212529"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("bold style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	w := &sheetWriter{f: f, row: 1}

	if err := f.MergeCell(SheetName, "A1", "E1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	w.set("A", sanitizeCell(d.Company.Name+" - "+d.title()))
	f.SetCellStyle(SheetName, "A1", "E1", titleStyle)
	w.next()
	w.set("A", "Fecha: "+export.FormatDate(d.IssuedAt))
	w.next()
	w.next()

	w.pair("Cliente", sanitizeCell(d.clientName()), boldStyle)
	w.pair("Email", sanitizeCell(d.Job.Client.Email), boldStyle)
	w.pair("Teléfono", sanitizeCell(d.Job.Client.Phone), boldStyle)
	w.pair("Tipo de trabajo", d.Job.WorkType.Label(), boldStyle)
	w.pair("Forma", string(d.Job.Dimensions.Shape), boldStyle)
	w.pair("Volumen (m³)", pricing.Round2(d.Quote.Geometry.Volume), boldStyle)
	w.pair("Área cerámica (m²)", pricing.Round2(d.Quote.Geometry.CeramicArea), boldStyle)
	w.pair("Área piso térmico (m²)", pricing.Round2(d.Quote.Geometry.ThermalFloorArea), boldStyle)
	w.next()

	for _, s := range d.sections() {
		if len(s.items) == 0 {
			continue
		}
		w.set("A", s.title)
		f.SetCellStyle(SheetName, w.cell("A"), w.cell("A"), boldStyle)
		w.next()

		for i, h := range []string{"Descripción", "Cantidad", "Unidad", "Precio", "Total"} {
			w.set(string(rune('A'+i)), h)
		}
		f.SetCellStyle(SheetName, w.cell("A"), w.cell("E"), headerStyle)
		w.next()

		for _, item := range s.items {
			w.set("A", sanitizeCell(item.Description))
			w.set("B", pricing.Round2(item.Quantity))
			w.set("C", item.Unit)
			w.set("D", pricing.Round2(item.UnitPrice))
			w.set("E", pricing.Round2(item.Total))
			f.SetCellStyle(SheetName, w.cell("D"), w.cell("E"), moneyStyle)
			w.next()
		}
		w.next()
	}

	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", d.Quote.Subtotal},
		{"Descuento", d.Quote.Discount},
		{"Total (" + export.Currency + ")", d.Quote.Total},
	}
	for _, t := range totals {
		w.set("D", t.label)
		w.set("E", pricing.Round2(t.value))
		f.SetCellStyle(SheetName, w.cell("D"), w.cell("D"), boldStyle)
		f.SetCellStyle(SheetName, w.cell("E"), w.cell("E"), moneyStyle)
		w.next()
	}
	w.next()
	for _, a := range d.assumptions() {
		w.set("A", a)
		w.next()
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f   *excelize.File
	row int
}

func (w *sheetWriter) cell(col string) string {
	return fmt.Sprintf("%s%d", col, w.row)
}

func (w *sheetWriter) set(col string, v interface{}) {
	w.f.SetCellValue(SheetName, w.cell(col), v)
}

func (w *sheetWriter) pair(label string, v interface{}, labelStyle int) {
	w.set("A", label)
	w.set("B", v)
	w.f.SetCellStyle(SheetName, w.cell("A"), w.cell("A"), labelStyle)
	w.next()
}

func (w *sheetWriter) next() {
	w.row++
}

// sanitizeCell keeps user text from being interpreted as a formula.
func sanitizeCell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
