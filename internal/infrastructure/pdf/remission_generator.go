// Package pdf implementa la generación de la remisión (packing slip) que
// acompaña físicamente un traslado entre bodegas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: REMISIÓN DE TRASLADO │ N° Traslado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: bodega origen  →  DESTINO: bodega destino           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Ítem | Solicitado | Despachado | UM         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + transportadora / guía                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apptransfer "github.com/jhoicas/Almacen-api/internal/application/transfer"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ apptransfer.RemissionGenerator = (*MarotoRemissionGenerator)(nil)

// MarotoRemissionGenerator implementa transfer.RemissionGenerator usando Maroto v2.
type MarotoRemissionGenerator struct{}

// NewMarotoRemissionGenerator construye el generador.
func NewMarotoRemissionGenerator() *MarotoRemissionGenerator { return &MarotoRemissionGenerator{} }

// GenerateRemissionPDF genera el PDF y devuelve sus bytes.
func (g *MarotoRemissionGenerator) GenerateRemissionPDF(_ context.Context, t *entity.StockTransfer) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de Traslado "+t.TransferNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(warehousesRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(t.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(t))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(carrierRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar remisión: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y N° de traslado + fecha (der).
func headerRow(t *entity.StockTransfer) core.Row {
	fecha := t.CreatedAt.Format("02/01/2006")
	if t.ActualShipDate != nil {
		fecha = t.ActualShipDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMISIÓN DE TRASLADO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento de acompañamiento de mercancía", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(t.TransferNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha despacho: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

// warehousesRow: bodega origen y destino.
func warehousesRow(t *entity.StockTransfer) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("ORIGEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(t.FromWarehouseName, t.FromWarehouseID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(6).Add(
			text.New("DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(t.ToWarehouseName, t.ToWarehouseID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Ítem", 5, align.Left),
		h("Solicitado", 2, align.Right),
		h("Despachado", 2, align.Right),
		h("UM", 1, align.Center),
	)
}

// tableLineRows: una fila por línea del traslado.
func tableLineRows(lines []*entity.TransferLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.ItemCode,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(5).Add(text.New(
				l.ItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.RequestedQuantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				l.ShippedQuantity.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				nonEmpty(l.UnitOfMeasure, "—"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// totalsRow: resumen de ítems y cantidad total solicitada.
func totalsRow(t *entity.StockTransfer) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(
			text.New("Ítems:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
			}),
			text.New("Cantidad total:", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5,
			}),
		),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", t.TotalItems), props.Text{
				Size: 9, Align: align.Right, Right: 1,
			}),
			text.New(t.TotalQuantity.StringFixed(2), props.Text{
				Size: 9, Align: align.Right, Right: 1, Top: 5,
			}),
		),
	)
}

// carrierRow: transportadora y número de guía, si existen.
func carrierRow(t *entity.StockTransfer) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New("TRANSPORTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Transportadora: %s   |   Guía: %s",
				nonEmpty(t.CarrierName, "—"),
				nonEmpty(t.TrackingNumber, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
