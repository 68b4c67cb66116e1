package usecase

import (
	"fmt"
	"time"

	"github.com/vbeltrame/stockflow-api/internal/domain/entity"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// StockPDFGenerator renderiza o relatório de estoque em PDF.
type StockPDFGenerator interface {
	StockReport(produtos []*entity.Product, geradoEm time.Time) ([]byte, error)
}

// StockExcelGenerator renderiza o relatório de estoque em XLSX, com a
// coluna de status colorida por carência.
type StockExcelGenerator interface {
	StockReport(produtos []*entity.Product, geradoEm time.Time) ([]byte, error)
}

// ReportUseCase gera os relatórios de estoque para download.
type ReportUseCase struct {
	productRepo repository.ProductRepository
	pdf         StockPDFGenerator
	excel       StockExcelGenerator
}

// NewReportUseCase constrói o caso de uso.
func NewReportUseCase(productRepo repository.ProductRepository, pdf StockPDFGenerator, excel StockExcelGenerator) *ReportUseCase {
	return &ReportUseCase{productRepo: productRepo, pdf: pdf, excel: excel}
}

// StockPDF gera o relatório PDF do estoque geral e o nome do arquivo.
func (uc *ReportUseCase) StockPDF() ([]byte, string, error) {
	produtos, err := uc.productRepo.List(repository.ProductFilter{})
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	data, err := uc.pdf.StockReport(produtos, now)
	if err != nil {
		return nil, "", err
	}
	return data, reportFilename("pdf", now), nil
}

// StockExcel gera o relatório XLSX do estoque geral e o nome do arquivo.
func (uc *ReportUseCase) StockExcel() ([]byte, string, error) {
	produtos, err := uc.productRepo.List(repository.ProductFilter{})
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	data, err := uc.excel.StockReport(produtos, now)
	if err != nil {
		return nil, "", err
	}
	return data, reportFilename("xlsx", now), nil
}

func reportFilename(ext string, quando time.Time) string {
	return fmt.Sprintf("relatorio_estoque_%s.%s", quando.Format("20060102_150405"), ext)
}
