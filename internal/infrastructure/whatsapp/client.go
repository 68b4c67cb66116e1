// Package whatsapp envia mensagens pelo gateway UltraMsg.
package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vbeltrame/stockflow-api/pkg/config"
)

// Client cliente do endpoint messages/chat do UltraMsg. Sem credenciais
// configuradas, SendMessage vira no-op.
type Client struct {
	cfg  config.WhatsAppConfig
	http *http.Client
}

// NewClient constrói o cliente com timeout de 10s.
func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage envia uma mensagem de texto para o telefone informado.
func (c *Client) SendMessage(ctx context.Context, phone, message string) error {
	if !c.cfg.Enabled() {
		return nil
	}

	endpoint := fmt.Sprintf("%s/%s/messages/chat", c.cfg.BaseURL, c.cfg.InstanceID)
	form := url.Values{}
	form.Set("token", c.cfg.Token)
	form.Set("to", phone)
	form.Set("body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("whatsapp: montar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp: status %d", resp.StatusCode)
	}
	return nil
}
