package entity

import "time"

// Roles de usuario dentro de un hospital.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleLogistica    = "logistica"
)

// User cuenta del portal. Pertenece a un hospital; el JWT emitido en login
// lleva el hospital_id con el que operan todas las reglas de rol.
type User struct {
	ID           string
	HospitalID   string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
