package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/application/stock"
	"github.com/vbeltrame/stockflow-api/internal/domain"
)

// StockHandler maneja o fluxo de estoque: solicitações, aprovações,
// entradas e retiradas diretas.
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// CreateRequest abre uma solicitação de retirada (qualquer usuário logado).
func (h *StockHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	sol, err := h.uc.CreateRequest(c.UserContext(), stock.CreateRequestInput{
		Codigo:      in.Codigo,
		Quantidade:  in.Quantidade,
		Destino:     in.Destino,
		Solicitante: GetUsername(c),
	})
	if err != nil {
		return h.stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSolicitacaoResponse(sol))
}

// ListRequests lista solicitações, opcionalmente por status.
func (h *StockHandler) ListRequests(c *fiber.Ctx) error {
	sols, err := h.uc.ListRequests(c.UserContext(), c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.SolicitacaoResponse, 0, len(sols))
	for _, s := range sols {
		out = append(out, dto.ToSolicitacaoResponse(s))
	}
	return c.JSON(out)
}

// GetRequest busca uma solicitação por ID.
func (h *StockHandler) GetRequest(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	sol, err := h.uc.GetRequest(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitação não encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToSolicitacaoResponse(sol))
}

// Approve aprova a solicitação e executa a retirada na mesma transação.
func (h *StockHandler) Approve(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	sol, err := h.uc.Approve(c.UserContext(), id, GetUsername(c))
	if err != nil {
		return h.stockError(c, err)
	}
	return c.JSON(dto.ToSolicitacaoResponse(sol))
}

// Reject reprova a solicitação sem mexer no estoque.
func (h *StockHandler) Reject(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	sol, err := h.uc.Reject(c.UserContext(), id, GetUsername(c))
	if err != nil {
		return h.stockError(c, err)
	}
	return c.JSON(dto.ToSolicitacaoResponse(sol))
}

// Entry registra entrada de estoque.
func (h *StockHandler) Entry(c *fiber.Ctx) error {
	var in dto.StockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	produto, err := h.uc.Entry(c.UserContext(), stock.EntryInput{
		Codigo:     in.Codigo,
		Quantidade: in.Quantidade,
		Usuario:    GetUsername(c),
	})
	if err != nil {
		return h.stockError(c, err)
	}
	return c.JSON(dto.ToProductResponse(produto))
}

// Withdraw registra retirada direta, sem solicitação prévia.
func (h *StockHandler) Withdraw(c *fiber.Ctx) error {
	var in dto.WithdrawalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	produto, err := h.uc.Withdraw(c.UserContext(), stock.WithdrawInput{
		Codigo:     in.Codigo,
		Quantidade: in.Quantidade,
		Destino:    in.Destino,
		Usuario:    GetUsername(c),
	})
	if err != nil {
		return h.stockError(c, err)
	}
	return c.JSON(dto.ToProductResponse(produto))
}

func (h *StockHandler) stockError(c *fiber.Ctx, err error) error {
	if insuf, ok := domain.IsInsufficientStock(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("Estoque insuficiente. Disponível: %d, Solicitado: %d", insuf.Disponivel, insuf.Solicitado),
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantidade deve ser maior que zero"})
	case errors.Is(err, domain.ErrMissingDestino):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo destino é obrigatório"})
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "produto não encontrado"})
	case errors.Is(err, domain.ErrRequestNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "solicitação não encontrada ou já decidida"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
