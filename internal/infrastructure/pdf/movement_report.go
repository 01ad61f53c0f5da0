// Package pdf genera el reporte del kardex (movimientos de inventario) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio   │  Título + fecha de emisión   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Producto | Cant. | Usuario | Detalle  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: entradas / salidas / ajustes / neto                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-ferreteria/internal/application/inventory"
	"github.com/jhoicas/inventario-ferreteria/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var movementLabels = map[string]string{
	entity.MovementTypeEntry:      "Entrada",
	entity.MovementTypeExit:       "Salida",
	entity.MovementTypeCreation:   "Creación",
	entity.MovementTypeUpdate:     "Edición",
	entity.MovementTypeDeletion:   "Eliminación",
	entity.MovementTypeAdjustment: "Ajuste",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.MovementReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa inventory.MovementReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	businessName string
	location     *time.Location
}

// NewMarotoReportGenerator construye el generador. loc nil usa time.Local.
func NewMarotoReportGenerator(businessName string, loc *time.Location) *MarotoReportGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &MarotoReportGenerator{businessName: businessName, location: loc}
}

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(title string, movements []*entity.Movement, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, title, generatedAt.In(g.location)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(movements) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin movimientos para los filtros indicados.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range g.tableRows(movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(Summarize(movements)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(business, title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(business, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Control de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Generado: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 1, align.Left),
		h("Producto", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Usuario", 2, align.Left),
		h("Detalle", 3, align.Left),
	)
}

func (g *MarotoReportGenerator) tableRows(movements []*entity.Movement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			cell(mv.CreatedAt.In(g.location).Format("02/01/2006 15:04"), 2, align.Left),
			cell(nonEmpty(movementLabels[mv.Type], mv.Type), 1, align.Left),
			cell(productLabel(mv), 3, align.Left),
			cell(signed(mv.Quantity), 1, align.Right),
			cell(nonEmpty(mv.UserName, "—"), 2, align.Left),
			cell(mv.Detail, 3, align.Left),
		))
	}
	return result
}

func summaryRow(s Summary) core.Row {
	item := func(label string, v int) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
			text.New(signed(v), props.Text{Size: 10, Top: 7}),
		)
	}
	return row.New(16).Add(
		item("Unidades entradas", s.In),
		item("Unidades salidas", -s.Out),
		item("Ajustes netos", s.Adjusted),
		item("Variación neta", s.Net()),
	)
}

// Summary totales de un conjunto de movimientos.
type Summary struct {
	In       int
	Out      int
	Adjusted int
}

// Net variación neta del stock.
func (s Summary) Net() int { return s.In - s.Out + s.Adjusted }

// Summarize suma las cantidades por tipo.
func Summarize(movements []*entity.Movement) Summary {
	var s Summary
	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeEntry:
			s.In += m.Quantity
		case entity.MovementTypeExit:
			s.Out += -m.Quantity
		case entity.MovementTypeAdjustment:
			s.Adjusted += m.Quantity
		}
	}
	return s
}

// ── helpers ───────────────────────────────────────────────────────────────────

func productLabel(m *entity.Movement) string {
	switch {
	case m.ProductCode != "":
		return m.ProductCode + " - " + m.ProductName
	case m.ProductID == "":
		return "(producto eliminado)"
	default:
		return m.ProductID
	}
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
