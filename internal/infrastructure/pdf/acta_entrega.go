// Package pdf implementa la representación gráfica del acta de entrega de un
// envío entregado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Acta de Entrega  │  N° Envío + Fecha de entrega    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: hospital que despacha                              │
//	│  RECEPTOR: hospital que recibe                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DETALLE: medicamento, cantidad, unidad, transportadora     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de verificación + leyenda                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ exchange.ActaPDFGenerator = (*ActaGenerator)(nil)

// ActaGenerator implementa exchange.ActaPDFGenerator usando Maroto v2.
type ActaGenerator struct{}

// NewActaGenerator construye el generador.
func NewActaGenerator() *ActaGenerator { return &ActaGenerator{} }

// GenerateActaPDF genera el PDF del acta y devuelve sus bytes.
func (g *ActaGenerator) GenerateActaPDF(_ context.Context, data exchange.ActaEntregaData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Entrega", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partesRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(detalleRows(data)...)
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y número de envío + fecha de entrega (der).
func headerRow(data exchange.ActaEntregaData) core.Row {
	fecha := data.FechaEntrega.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Intercambio de medicamentos entre hospitales", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ENVÍO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.ShipmentID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Entregado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// partesRow: hospital emisor y hospital receptor.
func partesRow(data exchange.ActaEntregaData) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("HOSPITAL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(data.EmisorNombre, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(6).Add(
			text.New("HOSPITAL RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(data.ReceptorNombre, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

// detalleRows: medicamento entregado y datos logísticos.
func detalleRows(data exchange.ActaEntregaData) []core.Row {
	campo := func(label, value string) core.Row {
		return row.New(7).Add(
			col.New(4).Add(text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 1,
			})),
			col.New(8).Add(text.New(value, props.Text{
				Size: 8, Top: 1, Color: colorGray,
			})),
		)
	}

	return []core.Row{
		row.New(8).Add(col.New(12).Add(text.New("DETALLE DE LA ENTREGA", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}))),
		campo("Medicamento:", data.MedicamentoDesc),
		campo("Cantidad:", data.Cantidad.StringFixed(2)+" "+data.Unidad),
		campo("Transportadora:", data.Transportadora),
		campo("Fecha de recogida:", data.FechaRecogida.Format("02/01/2006")),
	}
}

// footerRow: QR de verificación + leyenda.
func footerRow(data exchange.ActaEntregaData) core.Row {
	qrData := fmt.Sprintf("envio:%s|entregado:%s", data.ShipmentID, data.FechaEntrega.Format("2006-01-02T15:04:05Z07:00"))

	return row.New(45).Add(
		col.New(4).Add(code.NewQr(qrData, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Escanea el código QR para verificar\nlos datos de esta entrega.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Constancia de entrega de medicamentos\nentre instituciones hospitalarias", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 20,
				Left: 3, Color: colorPrimary,
			}),
		),
	)
}
