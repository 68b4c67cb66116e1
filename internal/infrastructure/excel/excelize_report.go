// Package excel gera o relatório de estoque geral em XLSX, com a coluna
// de status colorida conforme a quantidade em relação à carência.
package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	appusecase "github.com/vbeltrame/stockflow-api/internal/application/usecase"
	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
)

var _ appusecase.StockExcelGenerator = (*ExcelizeReportGenerator)(nil)

const sheetName = "Relatório de Estoque"

// Cores de preenchimento (cabeçalho azul, status verde/rosa).
const (
	fillHeader = "366092"
	fillOK     = "90EE90"
	fillBuy    = "FFB6C1"
)

var headerLabels = []string{"Código", "Nome", "Quantidade", "Carência", "Local", "Status"}

var columnWidths = []float64{12, 25, 12, 12, 20, 18}

// ExcelizeReportGenerator implementa usecase.StockExcelGenerator usando excelize.
type ExcelizeReportGenerator struct{}

// NewExcelizeReportGenerator constrói o gerador.
func NewExcelizeReportGenerator() *ExcelizeReportGenerator { return &ExcelizeReportGenerator{} }

// StockReport gera a planilha e devolve seus bytes.
func (g *ExcelizeReportGenerator) StockReport(produtos []*entity.Product, geradoEm time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("excel: criar aba: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("excel: remover aba padrão: %w", err)
	}

	if err := g.writeTitle(f, geradoEm); err != nil {
		return nil, err
	}
	if err := g.writeHeader(f); err != nil {
		return nil, err
	}
	if err := g.writeRows(f, produtos); err != nil {
		return nil, err
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("excel: largura da coluna %s: %w", col, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: gravar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ExcelizeReportGenerator) writeTitle(f *excelize.File, geradoEm time.Time) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo do título: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Family: "Arial", Italic: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo da data: %w", err)
	}

	if err := f.MergeCell(sheetName, "A1", "F1"); err != nil {
		return fmt.Errorf("excel: mesclar título: %w", err)
	}
	f.SetCellValue(sheetName, "A1", "RELATÓRIO DE ESTOQUE GERAL")
	f.SetCellStyle(sheetName, "A1", "F1", titleStyle)

	if err := f.MergeCell(sheetName, "A2", "F2"); err != nil {
		return fmt.Errorf("excel: mesclar data: %w", err)
	}
	f.SetCellValue(sheetName, "A2", "Data: "+geradoEm.Format("02/01/2006 15:04"))
	f.SetCellStyle(sheetName, "A2", "F2", dateStyle)
	return nil
}

func (g *ExcelizeReportGenerator) writeHeader(f *excelize.File) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Family: "Arial", Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillHeader}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo do cabeçalho: %w", err)
	}

	for i, label := range headerLabels {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheetName, cell, label)
	}
	f.SetCellStyle(sheetName, "A4", "F4", headerStyle)
	return nil
}

func (g *ExcelizeReportGenerator) writeRows(f *excelize.File, produtos []*entity.Product) error {
	okStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillOK}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo de status: %w", err)
	}
	buyStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillBuy}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("excel: estilo de status: %w", err)
	}

	for i, p := range produtos {
		rowNum := 5 + i
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), p.Codigo)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), p.Nome)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), p.Quantidade)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), p.Carencia)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), p.Local)

		statusCell := fmt.Sprintf("F%d", rowNum)
		if p.Quantidade > p.Carencia {
			f.SetCellValue(sheetName, statusCell, "Quantidade OK")
			f.SetCellStyle(sheetName, statusCell, statusCell, okStyle)
		} else {
			f.SetCellValue(sheetName, statusCell, "Realizar Compra")
			f.SetCellStyle(sheetName, statusCell, statusCell, buyStyle)
		}
	}
	return nil
}
