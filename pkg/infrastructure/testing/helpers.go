package testing

import (
	"context"

	"github.com/vsinha/shoplist/pkg/infrastructure/repositories/document"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage"
	"github.com/vsinha/shoplist/pkg/infrastructure/storage/memory"
)

// KitchenRecipesJSON is a small recipe book in the persisted receitas.json format:
//
//	Sopa:       Sal 0.1 Kg, Cenoura 3 Un, Arroz 0.5 Kg
//	Bolo:       Ovo 3 Un, Farinha 0.5 Kg
//	Strogonoff: Frango 1.5 Kg, Creme de leite 2 Un (no category)
const KitchenRecipesJSON = `{
  "Sopa": {
    "Sal": [0.1, "Kg", "Condimentos"],
    "Cenoura": [3, "Un", "Feira"],
    "Arroz": [0.5, "Kg", "Feira"]
  },
  "Bolo": {
    "Ovo": [3, "Un", "Frios"],
    "Farinha": [0.5, "Kg", "Outros"]
  },
  "Strogonoff": {
    "Frango": [1.5, "Kg", "Açougue"],
    "Creme de leite": [2, "Un"]
  }
}`

// KitchenBaselineJSON is a baseline list in the persisted lista_base.json format.
const KitchenBaselineJSON = `{
  "Arroz": {"quantidade": 2, "unidade": "Kg", "categoria": "Outros"},
  "Detergente": {"quantidade": 2, "unidade": "Un", "categoria": "Limpeza"},
  "Ovo": {"quantidade": 6, "unidade": "Un", "categoria": "Frios"}
}`

// SeedDocuments writes both kitchen documents under their default keys.
func SeedDocuments(ctx context.Context, backend storage.Backend) error {
	if err := backend.Write(ctx, document.DefaultRecipesKey, []byte(KitchenRecipesJSON)); err != nil {
		return err
	}
	return backend.Write(ctx, document.DefaultBaselineKey, []byte(KitchenBaselineJSON))
}

// BuildSeededBackend returns an in-memory backend holding the kitchen documents.
func BuildSeededBackend() *memory.Store {
	backend := memory.New()
	if err := SeedDocuments(context.Background(), backend); err != nil {
		panic(err)
	}
	return backend
}
