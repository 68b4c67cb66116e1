// Package totp encapsula a segunda etapa de autenticação (TOTP): geração de
// secret, URI de provisionamento com QR code e validação de códigos de 6
// dígitos com janela de ±2 períodos.
package totp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Janela de validação: aceita códigos até 2 períodos (60s) antes ou depois.
const skew = 2

// Enrollment resultado da geração de um novo secret TOTP.
type Enrollment struct {
	Secret string // base32, guardado no usuário
	URI    string // otpauth://... para o app autenticador
}

// Generate cria um novo secret TOTP para a conta informada.
func Generate(issuer, account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp: gerar secret: %w", err)
	}
	return &Enrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// URI monta o URI otpauth:// de provisionamento para um secret já existente,
// no mesmo formato de Generate.
func URI(issuer, account, secret string) string {
	u := url.URL{
		Scheme: "otpauth",
		Host:   "totp",
		Path:   "/" + issuer + ":" + account,
	}
	q := url.Values{}
	q.Set("secret", secret)
	q.Set("issuer", issuer)
	u.RawQuery = q.Encode()
	return u.String()
}

// Verify valida um código de 6 dígitos contra o secret, com a janela ±skew.
func Verify(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

// QRCodeBase64 renderiza o QR code do URI de provisionamento como PNG em
// base64, pronto para embutir em data URI.
func QRCodeBase64(uri string, size int) (string, error) {
	key, err := otp.NewKeyFromURL(uri)
	if err != nil {
		return "", fmt.Errorf("totp: parse uri: %w", err)
	}
	img, err := key.Image(size, size)
	if err != nil {
		return "", fmt.Errorf("totp: renderizar qr: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("totp: codificar png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
