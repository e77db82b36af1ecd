// Package output renders shopping lists as text, CSV, JSON or printable HTML.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/shoplist/pkg/application/dto"
)

// DefaultCSVFile is the export file name used when no path is given.
const DefaultCSVFile = "lista_de_compras.csv"

// Config holds configuration for output generation
type Config struct {
	Format  string // text, csv, json, html
	Path    string // "" writes to stdout (csv: DefaultCSVFile), "-" always writes to stdout
	Verbose bool
}

// Generate renders result in the configured format
func Generate(result *dto.ShoppingResult, config Config, stdout io.Writer) error {
	var buf bytes.Buffer
	if err := Render(&buf, result, config.Format); err != nil {
		return err
	}

	path := config.Path
	if path == "" && config.Format == "csv" {
		path = DefaultCSVFile
	}
	if path == "" || path == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s output: %w", config.Format, err)
	}
	if config.Verbose {
		fmt.Fprintf(stdout, "💾 Lista salva em: %s\n", path)
	}
	return nil
}

// Render writes result to w in the named format
func Render(w io.Writer, result *dto.ShoppingResult, format string) error {
	switch format {
	case "", "text":
		return WriteText(w, result, DefaultStyles())
	case "csv":
		return WriteCSV(w, result.List)
	case "json":
		return WriteJSON(w, result)
	case "html":
		return WriteHTML(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
