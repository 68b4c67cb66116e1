package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/application/usecase"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// LogHandler visor da trilha de auditoria (somente superadmin).
type LogHandler struct {
	uc *usecase.LogUseCase
}

// NewLogHandler constrói o handler.
func NewLogHandler(uc *usecase.LogUseCase) *LogHandler {
	return &LogHandler{uc: uc}
}

// List devolve uma página de 25 registros, mais recentes primeiro.
// Datas no formato 2006-01-02.
func (h *LogHandler) List(c *fiber.Ctx) error {
	filter := repository.LogFilter{
		Usuario: c.Query("usuario"),
		Acao:    c.Query("acao"),
	}
	var err error
	if filter.DataInicio, err = parseDateQuery(c.Query("data_inicio")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data_inicio inválida, use o formato 2006-01-02"})
	}
	if filter.DataFim, err = parseDateQuery(c.Query("data_fim")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data_fim inválida, use o formato 2006-01-02"})
	}

	out, err := h.uc.List(filter, c.QueryInt("page", 1))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
