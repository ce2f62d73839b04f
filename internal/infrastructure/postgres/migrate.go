package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jhoicas/cfdi-api/migrations"
	"github.com/jhoicas/cfdi-api/pkg/logger"
)

// Migrate aplica las migraciones embebidas pendientes. Sin cambios no es error.
func Migrate(databaseURL string, log *logger.Logger) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("crear migrador: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("esquema al día, sin migraciones pendientes")
			return nil
		}
		return fmt.Errorf("aplicar migraciones: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("versión del esquema: %w", err)
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migraciones aplicadas")
	return nil
}

// migrateURL cambia el esquema postgres:// por pgx5:// para usar el driver de pgx.
func migrateURL(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}
