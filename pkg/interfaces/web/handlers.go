package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/infrastructure/events"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
)

// stockFieldPrefix namespaces stock inputs in the shopping form.
const stockFieldPrefix = "stock:"

type page struct {
	Title      string
	Active     string
	Flash      string
	FlashError bool
}

func newPage(title, active string, st *sessionState) page {
	msg, isErr := st.takeFlash()
	return page{Title: title, Active: active, Flash: msg, FlashError: isErr}
}

type errorPage struct {
	page
	Message string
}

type recipeOption struct {
	Name     string
	Selected bool
}

type stockField struct {
	Field string
	Item  string
	Unit  entities.Unit
	Value string
}

type shoppingPage struct {
	page
	Recipes    []recipeOption
	MaxRecipes int
	Stock      []stockField
	Extras     []entities.ExtraItem
	Result     *dto.ShoppingResult
	Groups     []entities.CategoryGroup
}

func (s *Server) shoppingPage(w http.ResponseWriter, r *http.Request, st *sessionState) {
	ctx := r.Context()
	service := s.deps.Planner.Service()

	names, err := service.RecipeNames(ctx)
	if err != nil {
		s.fail(w, err)
		return
	}
	rows, err := service.StockRows(ctx, st.sess)
	if err != nil {
		s.fail(w, err)
		return
	}

	data := shoppingPage{
		page:       newPage("Lista de Compras", "shopping", st),
		MaxRecipes: st.sess.MaxRecipes(),
		Extras:     st.sess.Extras(),
		Result:     st.result,
	}
	for _, name := range names {
		data.Recipes = append(data.Recipes, recipeOption{Name: name, Selected: st.sess.IsSelected(name)})
	}
	for _, row := range rows {
		data.Stock = append(data.Stock, stockField{
			Field: stockFieldPrefix + row.Item,
			Item:  row.Item,
			Unit:  row.Unit,
			Value: output.FormatQuantity(row.Quantity),
		})
	}
	if st.result != nil {
		data.Groups = st.result.List.Groups()
	}
	s.render(w, http.StatusOK, "shopping.gohtml", data)
}

func (s *Server) selectRecipes(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	err := s.deps.Planner.Service().Select(r.Context(), st.sess, r.PostForm["recipe"])
	switch {
	case errors.Is(err, session.ErrTooManyRecipes):
		st.setFlash(fmt.Sprintf("Selecione no máximo %d receitas.", st.sess.MaxRecipes()), true)
	case err != nil:
		s.fail(w, err)
		return
	}
	redirect(w, r, "/")
}

func (s *Server) addExtra(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	quantity, err := entities.ParseQuantity(r.PostFormValue("quantity"))
	if err != nil {
		st.setFlash(err.Error(), true)
		redirect(w, r, "/")
		return
	}
	unit, category := formUnit(r.PostFormValue("unit")), formCategory(r.PostFormValue("category"))
	extra, err := s.deps.Planner.Service().AddExtra(st.sess, r.PostFormValue("name"), quantity, unit, category)
	if err != nil {
		st.setFlash("Digite o nome do item.", true)
	} else {
		st.setFlash(fmt.Sprintf("%s adicionado.", extra.Name), false)
	}
	redirect(w, r, "/")
}

// generate records the posted stock levels and computes the list.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	service := s.deps.Planner.Service()
	for field, values := range r.PostForm {
		item, ok := strings.CutPrefix(field, stockFieldPrefix)
		if !ok || len(values) == 0 {
			continue
		}
		quantity, err := entities.ParseQuantity(values[0])
		if err != nil {
			st.setFlash(fmt.Sprintf("%s: %v", item, err), true)
			redirect(w, r, "/")
			return
		}
		if err := service.SetStock(st.sess, item, quantity); err != nil {
			st.setFlash(fmt.Sprintf("%s: %v", item, err), true)
			redirect(w, r, "/")
			return
		}
	}

	result, err := service.Generate(r.Context(), st.sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	st.result = result
	if result.List.Len() == 0 {
		st.setFlash("Nada a comprar.", false)
	}
	redirect(w, r, "/#resultado")
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if err := s.deps.Planner.Service().Reset(r.Context(), st.sess); err != nil {
		s.fail(w, err)
		return
	}
	st.result = nil
	st.setFlash("Sessão reiniciada.", false)
	redirect(w, r, "/")
}

// exportCSV downloads the last generated list, generating one if needed.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request, st *sessionState) {
	result := st.result
	if result == nil {
		generated, err := s.deps.Planner.Service().Generate(r.Context(), st.sess)
		if err != nil {
			s.fail(w, err)
			return
		}
		st.result = generated
		result = generated
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", output.DefaultCSVFile))
	if err := output.WriteCSV(w, result.List); err != nil {
		s.logger.Error("csv export failed", zap.Error(err))
	}
}

type historyEntry struct {
	Time    string
	Summary string
}

type historyPage struct {
	page
	Entries []historyEntry
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	data := historyPage{page: page{Title: "Histórico", Active: "history"}}
	for _, e := range s.deps.Events.Recent(100) {
		data.Entries = append(data.Entries, historyEntry{
			Time:    e.Timestamp().Format(time.DateTime),
			Summary: events.Describe(e),
		})
	}
	s.render(w, http.StatusOK, "history.gohtml", data)
}

func formUnit(v string) entities.Unit {
	if unit, err := entities.ParseUnit(v); err == nil {
		return unit
	}
	return entities.UnitEach
}

func formCategory(v string) entities.Category {
	if category, err := entities.ParseCategory(v); err == nil {
		return category
	}
	return entities.DefaultCategory
}
