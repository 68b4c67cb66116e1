package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vbeltrame/stockflow-api/internal/application/auth"
	"github.com/vbeltrame/stockflow-api/internal/application/dto"
	"github.com/vbeltrame/stockflow-api/internal/domain"
	"github.com/vbeltrame/stockflow-api/internal/domain/password"
)

// AuthHandler maneja registro, login em duas etapas (senha + TOTP), reset
// de senha e o próprio perfil.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler constrói o handler de auth.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register cadastra um usuário comum.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username, email e password são obrigatórios"})
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "USERNAME_EXISTS", Message: "usuário já existe"})
		case errors.Is(err, domain.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "email já cadastrado"})
		case password.IsPolicyError(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username, email e password são obrigatórios"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUserResponse(user))
}

// Login primeira etapa: valida credenciais e abre a sessão TOTP. Nunca
// devolve JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Username == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username e password são obrigatórios"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciais inválidas"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TOTPSetup devolve secret, URI otpauth e QR code da sessão de setup.
func (h *AuthHandler) TOTPSetup(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id é obrigatório"})
	}
	out, err := h.uc.TOTPSetup(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionExpired) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sessão expirada, faça login novamente"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TOTPConfirm confirma o primeiro código do setup e ativa o 2FA.
func (h *AuthHandler) TOTPConfirm(c *fiber.Ctx) error {
	var in dto.TOTPCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.SessionID == "" || in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id e code são obrigatórios"})
	}
	out, err := h.uc.TOTPConfirm(c.UserContext(), in.SessionID, in.Code)
	if err != nil {
		return h.totpError(c, err)
	}
	return c.JSON(out)
}

// TOTPVerify segunda etapa do login: valida o código e emite o JWT.
func (h *AuthHandler) TOTPVerify(c *fiber.Ctx) error {
	var in dto.TOTPCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.SessionID == "" || in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id e code são obrigatórios"})
	}
	out, err := h.uc.TOTPVerify(c.UserContext(), in.SessionID, in.Code, c.IP())
	if err != nil {
		return h.totpError(c, err)
	}
	return c.JSON(out)
}

// Logout registra a saída no log de auditoria (o JWT é stateless).
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout(c.UserContext(), GetUsername(c), c.IP())
	return c.JSON(dto.MessageResponse{Message: "Logout realizado com sucesso"})
}

// ForgotPassword abre o fluxo de reset e envia o token de 6 dígitos por email.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email é obrigatório"})
	}
	out, err := h.uc.ForgotPassword(c.UserContext(), in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "email não cadastrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// VerifyResetToken valida o token de 6 dígitos antes da troca de senha.
func (h *AuthHandler) VerifyResetToken(c *fiber.Ctx) error {
	var in dto.VerifyResetTokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.SessionID == "" || in.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id e token são obrigatórios"})
	}
	if err := h.uc.VerifyResetToken(c.UserContext(), in.SessionID, in.Token); err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "token expirado, solicite um novo"})
		case errors.Is(err, domain.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token incorreto"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "Token verificado com sucesso"})
}

// ResetPassword define a nova senha depois do token verificado.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if in.SessionID == "" || in.Token == "" || in.NovaSenha == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "session_id, token e nova_senha são obrigatórios"})
	}
	if err := h.uc.ResetPassword(c.UserContext(), in); err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "token expirado, solicite um novo"})
		case errors.Is(err, domain.ErrInvalidToken):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token incorreto ou não verificado"})
		case errors.Is(err, domain.ErrPasswordMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PASSWORD_MISMATCH", Message: "senhas não coincidem"})
		case password.IsPolicyError(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "Senha redefinida com sucesso"})
}

// Profile devolve o perfil do usuário autenticado.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.uc.Profile(c.UserContext(), GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuário não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToUserResponse(user))
}

// UpdateProfile atualiza os dados do próprio usuário; senha opcional.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	user, err := h.uc.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuário não encontrado"})
		case errors.Is(err, domain.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "email já cadastrado"})
		case password.IsPolicyError(err):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "WEAK_PASSWORD", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToUserResponse(user))
}

// DeleteAccount exclui a própria conta anonimizando o histórico.
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	if err := h.uc.DeleteAccount(c.UserContext(), GetUserID(c)); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "usuário não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.MessageResponse{Message: "Conta excluída com sucesso"})
}

func (h *AuthHandler) totpError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "sessão expirada, faça login novamente"})
	case errors.Is(err, domain.ErrInvalidTOTPCode):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_CODE", Message: "código inválido"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
