package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/intercambiomed/intercambio-api/internal/application/dto"
	"github.com/intercambiomed/intercambio-api/internal/domain"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
	"github.com/intercambiomed/intercambio-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	hospitalRepo repository.HospitalRepository
	jwtCfg       JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, hospitalRepo repository.HospitalRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, hospitalRepo: hospitalRepo, jwtCfg: jwtCfg}
}

// RegisterUser crea un usuario: hashea password con bcrypt y persiste.
// Devuelve ErrEmailAlreadyExists si el email ya existe en ese hospital.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	if in.Email == "" || in.Password == "" || in.HospitalID == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.userRepo.GetByEmailAndHospital(in.Email, in.HospitalID)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hospital, err := uc.hospitalRepo.GetByID(in.HospitalID)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, domain.ErrNotFound // hospital no existe
	}
	if !hospital.Activo {
		return nil, domain.ErrHospitalInactive
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := in.Name
	if name == "" {
		name = in.Email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleFarmaceutico
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		HospitalID:   in.HospitalID,
		Email:        in.Email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return &dto.UserResponse{
		ID:         user.ID,
		HospitalID: user.HospitalID,
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
	}, nil
}

// Login valida credenciales y emite el JWT con el hospital_id del usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.HospitalID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:         user.ID,
			HospitalID: user.HospitalID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       user.Role,
		},
	}, nil
}
