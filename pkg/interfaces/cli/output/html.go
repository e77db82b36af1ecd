package output

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var printTemplate = template.Must(template.New("list.html").
	Funcs(template.FuncMap{"qty": FormatQuantity}).
	ParseFS(templateFS, "templates/list.html"))

type printData struct {
	Result *dto.ShoppingResult
	Groups []entities.CategoryGroup
	Date   string
}

// WriteHTML writes a printable page with one table per category.
func WriteHTML(w io.Writer, result *dto.ShoppingResult) error {
	data := printData{
		Result: result,
		Groups: result.List.Groups(),
		Date:   result.GeneratedAt.Format("02/01/2006 15:04"),
	}
	if err := printTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
