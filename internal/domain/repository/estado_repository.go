package repository

// EstadoRepository resuelve el catálogo de estados de referencia
// (tabla estados: dominio + nombre → id). Un estado nombrado que no exista en
// el catálogo es un error de configuración, no un dato faltante del usuario.
type EstadoRepository interface {
	// IDByName devuelve el id del estado para un dominio (publicacion,
	// donacion, solicitud, envio). Retorna domain.ErrConfigMissing si el
	// estado no está configurado.
	IDByName(dominio, nombre string) (int, error)
}
