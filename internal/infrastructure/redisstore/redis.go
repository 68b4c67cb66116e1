// Package redisstore guarda o estado efêmero dos fluxos de autenticação
// (sessões de setup/verificação TOTP e de reset de senha) no Redis, com
// expiração automática por TTL.
package redisstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewClient cria e valida um cliente go-redis a partir da URL.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
