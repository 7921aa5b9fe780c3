// seed_books genera un script SQL para poblar el catálogo (tabla books)
// a partir de un CSV exportado por el proveedor (ISO-8859-1, separado por ';').
//
// Uso: go run ./cmd/seed_books [ruta/catalogo.csv] [-utf8]
// Columnas: titulo;autor;precio;stock (la primera fila es encabezado).
// Escribe: internal/infrastructure/postgres/migrations/002_seed_books.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type bookRow struct {
	title  string
	author string
	price  decimal.Decimal
	stock  int
}

func main() {
	csvPath := "catalogo.csv"
	latin1 := true
	for _, arg := range os.Args[1:] {
		if arg == "-utf8" {
			latin1 = false
			continue
		}
		csvPath = arg
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	var in io.Reader = f
	if latin1 {
		in = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	books, err := parseBooks(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "002_seed_books.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, books); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d libros\n", outPath, len(books))
}

// parseBooks lee el CSV y descarta filas incompletas. Un precio o stock mal formado es error.
func parseBooks(r io.Reader) ([]bookRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var books []bookRow
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 || len(rec) < 4 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		// El proveedor usa coma decimal.
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", "."))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[2])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, rec[3])
		}
		books = append(books, bookRow{
			title:  strings.TrimSpace(rec[0]),
			author: strings.TrimSpace(rec[1]),
			price:  price.Round(2),
			stock:  stock,
		})
	}
	return books, nil
}

func writeSQL(w io.Writer, books []bookRow) error {
	if _, err := io.WriteString(w, "-- Catálogo inicial de libros\n-- Generado por cmd/seed_books\n\n"); err != nil {
		return err
	}
	for _, b := range books {
		_, err := fmt.Fprintf(w,
			"INSERT INTO books (title, author, price, stock_quantity) VALUES ('%s', '%s', %s, %d);\n",
			escapeSQL(b.title), escapeSQL(b.author), b.price.StringFixed(2), b.stock)
		if err != nil {
			return err
		}
	}
	return nil
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
