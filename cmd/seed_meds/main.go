// seed_meds genera un script SQL para poblar el catálogo de medicamentos a
// partir del listado CUM del INVIMA (CSV separado por punto y coma, codificado
// en ISO-8859-1).
//
// Uso: go run ./cmd/seed_meds [ruta/cum.csv]
// Por defecto busca cum.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_medicamentos.sql
//
// Formato esperado de cada línea: EXPEDIENTE;CUM;NOMBRE;FORMA;CONCENTRACION
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type medicamento struct {
	cum           string
	nombre        string
	forma         string
	concentracion string
}

func main() {
	csvPath := "cum.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// El listado oficial viene en ISO-8859-1; lo transcodificamos a UTF-8.
	sc := bufio.NewScanner(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	vistos := make(map[string]struct{})
	var meds []medicamento
	primera := true
	for sc.Scan() {
		linea := strings.TrimSpace(sc.Text())
		if linea == "" {
			continue
		}
		if primera {
			primera = false
			// Saltar encabezado si lo trae
			if strings.Contains(strings.ToUpper(linea), "EXPEDIENTE") {
				continue
			}
		}
		campos := strings.Split(linea, ";")
		if len(campos) < 3 {
			continue
		}
		cum := strings.TrimSpace(campos[1])
		nombre := strings.TrimSpace(campos[2])
		if cum == "" || nombre == "" {
			continue
		}
		if _, ok := vistos[cum]; ok {
			continue
		}
		vistos[cum] = struct{}{}

		m := medicamento{cum: cum, nombre: nombre}
		if len(campos) > 3 {
			m.forma = strings.TrimSpace(campos[3])
		}
		if len(campos) > 4 {
			m.concentracion = strings.TrimSpace(campos[4])
		}
		meds = append(meds, m)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_medicamentos.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Catálogo de medicamentos (código CUM INVIMA)\n")
	out.WriteString("-- Generado desde el listado CUM oficial\n\n")

	for _, m := range meds {
		fmt.Fprintf(out,
			"INSERT INTO medicamentos (id, cum, nombre, forma, concentracion)\nVALUES (gen_random_uuid(), '%s', '%s', '%s', '%s')\nON CONFLICT (cum) DO UPDATE SET nombre = EXCLUDED.nombre, forma = EXCLUDED.forma, concentracion = EXCLUDED.concentracion;\n",
			escapeSQL(m.cum), escapeSQL(m.nombre), escapeSQL(m.forma), escapeSQL(m.concentracion))
	}

	fmt.Printf("Generado %s: %d medicamentos\n", outPath, len(meds))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
