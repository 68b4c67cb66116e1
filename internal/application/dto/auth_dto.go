package dto

// Status devolvidos pelo login: a emissão do JWT sempre passa pelo TOTP.
const (
	LoginStatusSetupRequired = "TOTP_SETUP_REQUIRED"
	LoginStatusTOTPRequired  = "TOTP_REQUIRED"
)

// RegisterRequest cadastro público (nível de acesso sempre "comum").
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nome      string `json:"nome"`
	Sobrenome string `json:"sobrenome"`
	Telefone  string `json:"telefone"`
}

// LoginRequest credenciais da primeira etapa.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse resposta da primeira etapa: nunca contém JWT, apenas a
// sessão pendente para a etapa TOTP (setup ou verificação).
type LoginResponse struct {
	Status    string `json:"status"` // TOTP_SETUP_REQUIRED | TOTP_REQUIRED
	SessionID string `json:"session_id"`
}

// TOTPSetupResponse dados para provisionar o app autenticador.
type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
	QRCode string `json:"qr_code"` // PNG base64
}

// TOTPCodeRequest código de 6 dígitos da segunda etapa (setup ou verify).
type TOTPCodeRequest struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
}

// TokenResponse JWT emitido ao concluir a autenticação.
type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// ForgotPasswordRequest pedido de token de reset por email.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordResponse sessão de reset criada (token segue por email).
type ForgotPasswordResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// VerifyResetTokenRequest verificação do token de 6 dígitos recebido.
type VerifyResetTokenRequest struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// ResetPasswordRequest define a nova senha após o token verificado.
type ResetPasswordRequest struct {
	SessionID      string `json:"session_id"`
	Token          string `json:"token"`
	NovaSenha      string `json:"nova_senha"`
	ConfirmarSenha string `json:"confirmar_senha"`
}
