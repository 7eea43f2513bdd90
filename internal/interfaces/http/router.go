package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/intercambiomed/intercambio-api/internal/application/auth"
	"github.com/intercambiomed/intercambio-api/internal/application/exchange"
	"github.com/intercambiomed/intercambio-api/internal/application/notify"
	"github.com/intercambiomed/intercambio-api/internal/domain/entity"
	"github.com/intercambiomed/intercambio-api/internal/domain/repository"
	"github.com/intercambiomed/intercambio-api/internal/infrastructure/broadcast"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ExchangeUC   *exchange.UseCase
	NotifyUC     *notify.UseCase
	AuthUC       *auth.AuthUseCase
	Hub          *broadcast.Hub
	HospitalRepo repository.HospitalRepository
	MedRepo      repository.MedicationRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Directorio de hospitales (solo lectura)
	hospitales := protected.Group("/hospitales")
	hospitalHandler := NewHospitalHandler(deps.HospitalRepo)
	hospitales.Get("/", hospitalHandler.List)
	hospitales.Get("/:id", hospitalHandler.GetByID)

	// Catálogo de medicamentos (solo lectura)
	medicamentos := protected.Group("/medicamentos")
	medHandler := NewMedicationHandler(deps.MedRepo)
	medicamentos.Get("/", medHandler.List)
	medicamentos.Get("/:id", medHandler.GetByID)

	// Publicaciones
	publicaciones := protected.Group("/publicaciones")
	pubHandler := NewPublicationHandler(deps.ExchangeUC)
	publicaciones.Post("/", pubHandler.Create)
	publicaciones.Get("/", pubHandler.List)
	publicaciones.Get("/:id", pubHandler.GetByID)

	// Donaciones
	donaciones := protected.Group("/donaciones")
	donHandler := NewDonationHandler(deps.ExchangeUC)
	donaciones.Post("/", donHandler.Create)
	donaciones.Get("/", donHandler.List)
	donaciones.Get("/:id", donHandler.GetByID)
	donaciones.Post("/:id/reclamar", donHandler.Claim)
	donaciones.Post("/:id/envio", RequireRole(entity.RoleAdmin, entity.RoleLogistica), donHandler.CreateShipment)

	// Solicitudes
	solicitudes := protected.Group("/solicitudes")
	reqHandler := NewRequestHandler(deps.ExchangeUC)
	solicitudes.Post("/", reqHandler.Create)
	solicitudes.Post("/prioritaria", reqHandler.CreatePriority)
	solicitudes.Post("/:id/decision", reqHandler.Decide)

	// Envíos
	envios := protected.Group("/envios")
	envHandler := NewShipmentHandler(deps.ExchangeUC)
	envios.Post("/", RequireRole(entity.RoleAdmin, entity.RoleLogistica), envHandler.Create)
	envios.Get("/:id", envHandler.GetByID)
	envios.Post("/:id/avanzar", RequireRole(entity.RoleAdmin, entity.RoleLogistica), envHandler.Advance)
	envios.Get("/:id/acta", envHandler.ActaPDF)
	envios.Get("/:id/remision", envHandler.Remision)

	// Notificaciones
	notificaciones := protected.Group("/notificaciones")
	notifHandler := NewNotificationHandler(deps.NotifyUC, deps.Hub)
	notificaciones.Get("/", notifHandler.List)
	notificaciones.Get("/stream", notifHandler.Stream)
	notificaciones.Get("/no-leidas/count", notifHandler.CountUnread)
	notificaciones.Post("/:id/leer", notifHandler.MarkRead)
}
