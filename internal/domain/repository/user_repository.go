package repository

import "github.com/intercambiomed/intercambio-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByEmailAndHospital(email, hospitalID string) (*entity.User, error)
	ListByHospital(hospitalID string, limit, offset int) ([]*entity.User, error)
}
