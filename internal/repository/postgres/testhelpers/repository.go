package testhelpers

import (
	"github.com/poi-zoom-service/internal/domain/repository"
	"github.com/poi-zoom-service/internal/repository/postgres"
)

// POIRepository собирает репозиторий POI поверх тестовой базы
func (tdb *TestDB) POIRepository() repository.POIRepository {
	return postgres.NewPOIRepository(postgres.Wrap(tdb.DB, tdb.Logger))
}
