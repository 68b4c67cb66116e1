// Package password implementa a política de senha forte do sistema:
// mínimo de 8 caracteres com maiúscula, minúscula, dígito e caractere
// especial, com uma mensagem específica por classe ausente.
package password

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Caracteres especiais aceitos pela política.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

// Erros da política, um por critério violado. A validação para no primeiro
// critério não atendido, na mesma ordem das mensagens ao usuário.
var (
	ErrTooShort  = errors.New("a senha deve ter pelo menos 8 caracteres")
	ErrNoUpper   = errors.New("a senha deve conter pelo menos uma letra maiúscula")
	ErrNoLower   = errors.New("a senha deve conter pelo menos uma letra minúscula")
	ErrNoDigit   = errors.New("a senha deve conter pelo menos um número")
	ErrNoSpecial = errors.New(`a senha deve conter pelo menos um caractere especial (!@#$%^&*(),.?":{}|<>)`)
)

// Validate devolve nil quando a senha atende a todos os critérios, ou o erro
// do primeiro critério violado.
func Validate(senha string) error {
	// Conta caracteres, não bytes: senha com acentos não ganha comprimento.
	if utf8.RuneCountInString(senha) < 8 {
		return ErrTooShort
	}
	var upper, lower, digit, special bool
	for _, r := range senha {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(SpecialChars, r):
			special = true
		}
	}
	switch {
	case !upper:
		return ErrNoUpper
	case !lower:
		return ErrNoLower
	case !digit:
		return ErrNoDigit
	case !special:
		return ErrNoSpecial
	}
	return nil
}

// IsPolicyError indica se err veio da política de senha (para mapear em 400).
func IsPolicyError(err error) bool {
	return errors.Is(err, ErrTooShort) || errors.Is(err, ErrNoUpper) ||
		errors.Is(err, ErrNoLower) || errors.Is(err, ErrNoDigit) ||
		errors.Is(err, ErrNoSpecial)
}
