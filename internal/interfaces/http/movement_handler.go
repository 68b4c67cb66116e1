package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/application/usecase"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/repository"
)

// MovementHandler consulta do razão de movimentações (admin/superadmin).
type MovementHandler struct {
	uc *usecase.MovementUseCase
}

// NewMovementHandler constrói o handler.
func NewMovementHandler(uc *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// List lista as movimentações mais recentes com os filtros da query.
// Datas no formato 2006-01-02.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter := repository.MovimentacaoFilter{
		Codigo:  c.Query("codigo"),
		Nome:    c.Query("nome"),
		Tipo:    c.Query("tipo"),
		Usuario: c.Query("usuario"),
	}
	var err error
	if filter.DataInicio, err = parseDateQuery(c.Query("data_inicio")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data_inicio inválida, use o formato 2006-01-02"})
	}
	if filter.DataFim, err = parseDateQuery(c.Query("data_fim")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "data_fim inválida, use o formato 2006-01-02"})
	}

	out, err := h.uc.List(filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// GetByID busca uma movimentação por ID.
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "movimentação não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func parseDateQuery(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
