// Package pdf gera o relatório de estoque geral em PDF (A4): título, data
// de geração e a tabela Código | Nome | Quantidade | Local, na ordem
// alfabética dos produtos.
package pdf

import (
	"fmt"
	"time"

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

	appusecase "github.com/vbeltrame/stockflow-api/internal/application/usecase"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

var _ appusecase.StockPDFGenerator = (*MarotoReportGenerator)(nil)

// Paleta do relatório.
var (
	colorHeader = &props.Color{Red: 90, Green: 90, Blue: 90}
	colorGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReportGenerator implementa usecase.StockPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator constrói o gerador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// StockReport gera o PDF e devolve seus bytes.
func (g *MarotoReportGenerator) StockReport(produtos []*entity.Product, geradoEm time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Estoque Geral", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(12).Add(
		col.New(12).Add(
			text.New("Relatório de Estoque Geral", props.Text{
				Style: fontstyle.Bold, Size: 16, Align: align.Center, Top: 1,
			}),
		),
	))
	m.AddRows(row.New(8).Add(
		col.New(12).Add(
			text.New("Data: "+geradoEm.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 1,
			}),
		),
	))
	m.AddRows(line.NewRow(2, props.Line{Color: colorHeader, Thickness: 0.4}))

	m.AddRows(tableHeaderRow())
	for _, p := range produtos {
		m.AddRows(productRow(p))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// tableHeaderRow cabeçalho da tabela de produtos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: a,
			Color: colorHeader, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(9).Add(
		h("Código", 2, align.Center),
		h("Nome", 5, align.Left),
		h("Quantidade", 2, align.Center),
		h("Local", 3, align.Left),
	)
}

// productRow uma linha por produto.
func productRow(p *entity.Product) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(p.Codigo, props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(5).Add(text.New(p.Nome, props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1,
		})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", p.Quantidade), props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(3).Add(text.New(p.Local, props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1,
		})),
	)
}
