package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/application/usecase"
)

// ReportHandler downloads do relatório de estoque geral (admin/superadmin).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler constrói o handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockPDF baixa o relatório em PDF.
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	data, filename, err := h.uc.StockPDF()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

// StockExcel baixa o relatório em XLSX.
func (h *ReportHandler) StockExcel(c *fiber.Ctx) error {
	data, filename, err := h.uc.StockExcel()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
