package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// CSVHeader is the first record of every export.
var CSVHeader = []string{"Item", "Qtd. Faltante", "Unidade", "Categoria"}

// WriteCSV writes one record per row, in list order, after CSVHeader.
func WriteCSV(w io.Writer, list entities.ShoppingList) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range list.Rows {
		record := []string{
			row.Item,
			FormatQuantity(row.Quantity),
			row.Unit.String(),
			row.Category.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.Item, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatQuantity rounds to 2 decimal places and drops trailing zeros.
func FormatQuantity(q decimal.Decimal) string {
	return q.Round(2).String()
}
