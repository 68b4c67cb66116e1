package totp_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	otptotp "github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbeltrame/stockflow-api/pkg/totp"
)

func TestGenerate_ProduzSecretEURI(t *testing.T) {
	enr, err := totp.Generate("Stock Flow", "victor")
	require.NoError(t, err)

	assert.NotEmpty(t, enr.Secret)
	assert.True(t, strings.HasPrefix(enr.URI, "otpauth://totp/"))
	assert.Contains(t, enr.URI, "Stock%20Flow")
}

func TestVerify_CodigoAtualValido(t *testing.T) {
	enr, err := totp.Generate("Stock Flow", "victor")
	require.NoError(t, err)

	code, err := otptotp.GenerateCode(enr.Secret, time.Now().UTC())
	require.NoError(t, err)

	assert.True(t, totp.Verify(enr.Secret, code))
}

// Códigos de até 2 períodos atrás continuam válidos (janela ±2).
func TestVerify_JanelaDeDoisPeriodos(t *testing.T) {
	enr, err := totp.Generate("Stock Flow", "victor")
	require.NoError(t, err)

	code, err := otptotp.GenerateCode(enr.Secret, time.Now().UTC().Add(-60*time.Second))
	require.NoError(t, err)

	assert.True(t, totp.Verify(enr.Secret, code),
		"código de 2 períodos atrás deve ser aceito")
}

func TestVerify_CodigoInvalido(t *testing.T) {
	enr, err := totp.Generate("Stock Flow", "victor")
	require.NoError(t, err)

	assert.False(t, totp.Verify(enr.Secret, "000000"))
	assert.False(t, totp.Verify(enr.Secret, "abc123"))
	assert.False(t, totp.Verify(enr.Secret, ""))
}

func TestQRCodeBase64_PNGValido(t *testing.T) {
	enr, err := totp.Generate("Stock Flow", "victor")
	require.NoError(t, err)

	b64, err := totp.QRCodeBase64(enr.URI, 256)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	// assinatura PNG
	assert.True(t, len(raw) > 8 && string(raw[1:4]) == "PNG")
}
