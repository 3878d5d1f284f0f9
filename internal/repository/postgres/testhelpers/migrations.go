package testhelpers

import (
	"github.com/poi-zoom-service/internal/repository/postgres"
)

// Migrate применяет миграции сервиса к тестовой БД через golang-migrate
func (tdb *TestDB) Migrate(migrationsPath string) error {
	return postgres.MigrateUp(tdb.URL, migrationsPath, tdb.Logger)
}

// Rollback откатывает последние steps миграций
func (tdb *TestDB) Rollback(migrationsPath string, steps int) error {
	return postgres.MigrateDown(tdb.URL, migrationsPath, steps, tdb.Logger)
}
