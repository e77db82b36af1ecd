package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/domain/entities"
)

type jsonDocument struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Selected    []string                 `json:"selected"`
	Policy      string                   `json:"policy"`
	Rows        []entities.ShortfallRow  `json:"rows"`
	Groups      []entities.CategoryGroup `json:"groups"`
}

// WriteJSON writes the result with rows and their category grouping.
func WriteJSON(w io.Writer, result *dto.ShoppingResult) error {
	doc := jsonDocument{
		GeneratedAt: result.GeneratedAt,
		Selected:    result.Selected,
		Policy:      result.Policy,
		Rows:        result.List.Rows,
		Groups:      result.List.Groups(),
	}
	if doc.Selected == nil {
		doc.Selected = []string{}
	}
	if doc.Rows == nil {
		doc.Rows = []entities.ShortfallRow{}
	}
	if doc.Groups == nil {
		doc.Groups = []entities.CategoryGroup{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
