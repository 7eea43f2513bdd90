package entity

// Medication es una entrada del catálogo de medicamentos (datos de referencia,
// solo lectura). El código CUM identifica el medicamento en el registro
// sanitario; el catálogo se puebla con cmd/seed_meds.
type Medication struct {
	ID            string
	CUM           string // Código Único de Medicamento
	Nombre        string
	Forma         string // tableta, jarabe, solución inyectable, etc.
	Concentracion string
}
