package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// HospitalRepository puerto de solo lectura sobre el directorio de hospitales.
// El portal no administra hospitales; los consulta para validar existencia y
// estado activo antes de operar.
type HospitalRepository interface {
	GetByID(id string) (*entity.Hospital, error)
	Exists(id string) (bool, error)
	IsActive(id string) (bool, error)
	List(limit, offset int) ([]*entity.Hospital, error)
}
