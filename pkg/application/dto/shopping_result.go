package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// StockRow is one input of the stock form
type StockRow struct {
	Item     string
	Unit     entities.Unit
	Quantity decimal.Decimal
}

// ShoppingResult contains the complete output of a generation run
type ShoppingResult struct {
	List        entities.ShoppingList
	Selected    []string
	Policy      string
	GeneratedAt time.Time
}
