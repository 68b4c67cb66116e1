package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/vbeltrame/stockflow-api/pkg/config"
)

// RunMigrations aplica as migrações pendentes do diretório configurado.
// ErrNoChange não é erro: o esquema já está em dia.
func RunMigrations(cfg config.DBConfig) error {
	sourceURL := fmt.Sprintf("file://%s", cfg.MigrationsPath)
	m, err := migrate.New(sourceURL, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("abrir migrações: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migrações: %w", err)
	}
	return nil
}
