package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbeltrame/stockflow-api/internal/domain/password"
)

func TestValidate_SenhaValida(t *testing.T) {
	assert.NoError(t, password.Validate("Valid123!"))
}

// Cada vetor viola exatamente uma classe e deve receber a mensagem daquela classe.
func TestValidate_SenhasFracas(t *testing.T) {
	cases := []struct {
		name  string
		senha string
		want  error
	}{
		{"curta", "short1!", password.ErrTooShort},
		{"sem maiúscula", "alllowercase1!", password.ErrNoUpper},
		{"sem minúscula", "ALLUPPER1!", password.ErrNoLower},
		{"sem dígito", "NoDigits!!", password.ErrNoDigit},
		{"sem especial", "NoSpecial123", password.ErrNoSpecial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := password.Validate(tc.senha)
			assert.ErrorIs(t, err, tc.want, "senha %q deve ser rejeitada pela classe correta", tc.senha)
			assert.True(t, password.IsPolicyError(err))
		})
	}
}

func TestValidate_EspeciaisDaListaContam(t *testing.T) {
	// cada caractere da lista deve satisfazer o critério de especial
	for _, c := range password.SpecialChars {
		senha := "Abcdef12" + string(c)
		assert.NoErrorf(t, password.Validate(senha), "especial %q deve ser aceito", string(c))
	}
}

func TestValidate_EspecialForaDaListaNaoConta(t *testing.T) {
	// underscore não está na lista de especiais da política
	assert.ErrorIs(t, password.Validate("Abcdef12_"), password.ErrNoSpecial)
}

func TestValidate_ComprimentoContaCaracteres(t *testing.T) {
	// "Aéíóú1!" tem 7 caracteres mas mais de 8 bytes; o mínimo é por
	// caractere, então continua curta.
	assert.ErrorIs(t, password.Validate("Aéíóú1!"), password.ErrTooShort)

	// 8 caracteres com acentos devem passar pelo critério de comprimento.
	assert.NoError(t, password.Validate("Aéíóúb1!"))
}
