package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vsinha/shoplist/pkg/application/services/editor"
	"github.com/vsinha/shoplist/pkg/application/session"
	"github.com/vsinha/shoplist/pkg/domain/entities"
	"github.com/vsinha/shoplist/pkg/interfaces/cli/output"
)

type loginPage struct {
	page
	Editor string
	Action string
	Error  string
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, st *sessionState, editorName, errMsg string) {
	data := loginPage{Error: errMsg}
	switch editorName {
	case editor.EditorRecipes:
		data.page = newPage("Editor de Receitas", "recipes", st)
		data.Editor = "receitas"
		data.Action = "/recipes/login"
	default:
		data.page = newPage("Editor da Lista Base", "baseline", st)
		data.Editor = "lista base"
		data.Action = "/baseline/login"
	}
	s.render(w, status, "login.gohtml", data)
}

func (s *Server) login(editorName, back string) sessionHandler {
	return func(w http.ResponseWriter, r *http.Request, st *sessionState) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		if err := s.deps.Gate.Enter(st.sess, editorName, r.PostFormValue("password")); err != nil {
			s.renderLogin(w, http.StatusUnauthorized, st, editorName, "Senha incorreta.")
			return
		}
		redirect(w, r, back)
	}
}

type recipeSummary struct {
	Name        string
	Ingredients int
}

type rowField struct {
	Index    int
	Name     string
	Quantity string
	Unit     entities.Unit
	Category entities.Category
}

type recipeFormView struct {
	OriginalName string
	Name         string
	Rows         []rowField
}

type recipesPage struct {
	page
	Recipes []recipeSummary
	Form    recipeFormView
	Error   string
}

func recipeView(form editor.RecipeForm) recipeFormView {
	view := recipeFormView{OriginalName: form.OriginalName, Name: form.Name}
	for i, row := range form.Rows {
		quantity := ""
		if row.Name != "" || !row.Quantity.IsZero() {
			quantity = output.FormatQuantity(row.Quantity)
		}
		view.Rows = append(view.Rows, rowField{
			Index:    i,
			Name:     row.Name,
			Quantity: quantity,
			Unit:     row.Unit,
			Category: row.Category,
		})
	}
	return view
}

func (s *Server) recipesPage(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorRecipes) {
		s.renderLogin(w, http.StatusOK, st, editor.EditorRecipes, "")
		return
	}
	ctx := r.Context()

	form := editor.NewRecipeForm()
	editing := r.URL.Query().Get("edit")
	switch {
	case r.URL.Query().Has("new"):
		st.sess.RecipeDraft = nil
		editing = ""
	case editing == "" && st.sess.RecipeDraft != nil:
		editing = st.sess.RecipeDraft.Editing
	}
	if editing != "" {
		recipe, ok, err := s.deps.RecipeEditor.Get(ctx, editing)
		if err != nil {
			s.fail(w, err)
			return
		}
		if ok {
			form = editor.FormFromRecipe(recipe)
		}
	}
	if draft := st.sess.RecipeDraft; draft != nil && draft.Editing == form.OriginalName {
		for len(form.Rows) < draft.RowCount {
			form.AddRow()
		}
	}
	st.sess.RecipeDraft = &session.RecipeDraft{Editing: form.OriginalName, RowCount: len(form.Rows)}

	s.renderRecipes(w, r, st, http.StatusOK, form, "")
}

func (s *Server) renderRecipes(w http.ResponseWriter, r *http.Request, st *sessionState, status int, form editor.RecipeForm, errMsg string) {
	recipes, err := s.deps.RecipeEditor.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	data := recipesPage{
		page:  newPage("Editor de Receitas", "recipes", st),
		Form:  recipeView(form),
		Error: errMsg,
	}
	for _, recipe := range recipes {
		data.Recipes = append(data.Recipes, recipeSummary{Name: recipe.Name, Ingredients: len(recipe.Ingredients)})
	}
	s.render(w, status, "recipes.gohtml", data)
}

// parseRecipeForm reads rows row_name_N, row_qty_N, row_unit_N and row_cat_N for N below the posted row count.
func parseRecipeForm(r *http.Request) (editor.RecipeForm, error) {
	form := editor.RecipeForm{
		OriginalName: r.PostFormValue("original_name"),
		Name:         r.PostFormValue("name"),
	}
	count, err := strconv.Atoi(r.PostFormValue("rows"))
	if err != nil || count < 0 {
		count = 0
	}
	var firstErr error
	for i := 0; i < count; i++ {
		name := r.PostFormValue(fmt.Sprintf("row_name_%d", i))
		quantity, err := entities.ParseQuantity(r.PostFormValue(fmt.Sprintf("row_qty_%d", i)))
		if err != nil && name != "" && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", name, err)
		}
		form.Rows = append(form.Rows, editor.IngredientRow{
			Name:     name,
			Quantity: quantity,
			Unit:     formUnit(r.PostFormValue(fmt.Sprintf("row_unit_%d", i))),
			Category: formCategory(r.PostFormValue(fmt.Sprintf("row_cat_%d", i))),
		})
	}
	if len(form.Rows) == 0 {
		form.AddRow()
	}
	return form, firstErr
}

func (s *Server) saveRecipe(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorRecipes) {
		redirect(w, r, "/recipes")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form, parseErr := parseRecipeForm(r)

	if r.PostFormValue("action") == "add_row" {
		form.AddRow()
		st.sess.RecipeDraft = &session.RecipeDraft{Editing: form.OriginalName, RowCount: len(form.Rows)}
		s.renderRecipes(w, r, st, http.StatusOK, form, "")
		return
	}
	if parseErr != nil {
		s.renderRecipes(w, r, st, http.StatusUnprocessableEntity, form, parseErr.Error())
		return
	}

	saved, err := s.deps.RecipeEditor.Save(r.Context(), st.sess, form)
	var validation *editor.ValidationError
	switch {
	case errors.As(err, &validation):
		s.renderRecipes(w, r, st, http.StatusUnprocessableEntity, form, validation.Message)
		return
	case err != nil:
		s.fail(w, err)
		return
	}
	st.sess.RecipeDraft = &session.RecipeDraft{Editing: saved.Name, RowCount: len(saved.Ingredients)}
	st.setFlash(fmt.Sprintf("Receita %s salva.", saved.Name), false)
	redirect(w, r, "/recipes?edit="+url.QueryEscape(saved.Name))
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorRecipes) {
		redirect(w, r, "/recipes")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	if err := s.deps.RecipeEditor.Delete(r.Context(), st.sess, name); err != nil {
		s.fail(w, err)
		return
	}
	st.sess.RecipeDraft = nil
	st.setFlash(fmt.Sprintf("Receita %s excluída.", name), false)
	redirect(w, r, "/recipes?new")
}

type baselineFormView struct {
	OriginalName string
	Name         string
	Quantity     string
	Unit         entities.Unit
	Category     entities.Category
}

type baselinePage struct {
	page
	Items []entities.BaselineItem
	Form  baselineFormView
	Error string
}

func baselineView(form editor.BaselineForm) baselineFormView {
	view := baselineFormView{
		OriginalName: form.OriginalName,
		Name:         form.Name,
		Unit:         form.Unit,
		Category:     form.Category,
	}
	if form.Name != "" {
		view.Quantity = output.FormatQuantity(form.Minimum)
	}
	if view.Unit == "" {
		view.Unit = entities.UnitEach
	}
	if view.Category == "" {
		view.Category = entities.DefaultCategory
	}
	return view
}

func (s *Server) baselinePage(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorBaseline) {
		s.renderLogin(w, http.StatusOK, st, editor.EditorBaseline, "")
		return
	}

	editing := r.URL.Query().Get("edit")
	switch {
	case r.URL.Query().Has("new"):
		editing = ""
	case editing == "":
		editing = st.sess.BaselineDraft
	}

	var form editor.BaselineForm
	if editing != "" {
		item, ok, err := s.deps.BaselineEditor.Get(r.Context(), editing)
		if err != nil {
			s.fail(w, err)
			return
		}
		if ok {
			form = editor.FormFromItem(item)
		}
	}
	st.sess.BaselineDraft = form.OriginalName
	s.renderBaseline(w, r, st, http.StatusOK, form, "")
}

func (s *Server) renderBaseline(w http.ResponseWriter, r *http.Request, st *sessionState, status int, form editor.BaselineForm, errMsg string) {
	items, err := s.deps.BaselineEditor.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.render(w, status, "baseline.gohtml", baselinePage{
		page:  newPage("Editor da Lista Base", "baseline", st),
		Items: items,
		Form:  baselineView(form),
		Error: errMsg,
	})
}

func (s *Server) saveBaselineItem(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorBaseline) {
		redirect(w, r, "/baseline")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := editor.BaselineForm{
		OriginalName: r.PostFormValue("original_name"),
		Name:         r.PostFormValue("name"),
		Unit:         formUnit(r.PostFormValue("unit")),
		Category:     formCategory(r.PostFormValue("category")),
	}
	minimum, err := entities.ParseQuantity(r.PostFormValue("quantity"))
	if err != nil {
		s.renderBaseline(w, r, st, http.StatusUnprocessableEntity, form, err.Error())
		return
	}
	form.Minimum = minimum

	saved, err := s.deps.BaselineEditor.Save(r.Context(), st.sess, form)
	var validation *editor.ValidationError
	switch {
	case errors.As(err, &validation):
		s.renderBaseline(w, r, st, http.StatusUnprocessableEntity, form, validation.Message)
		return
	case err != nil:
		s.fail(w, err)
		return
	}
	st.sess.BaselineDraft = saved.Name
	st.setFlash(fmt.Sprintf("Item %s salvo.", saved.Name), false)
	redirect(w, r, "/baseline?edit="+url.QueryEscape(saved.Name))
}

func (s *Server) deleteBaselineItem(w http.ResponseWriter, r *http.Request, st *sessionState) {
	if !st.sess.Authorized(editor.EditorBaseline) {
		redirect(w, r, "/baseline")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")
	if err := s.deps.BaselineEditor.Delete(r.Context(), st.sess, name); err != nil {
		s.fail(w, err)
		return
	}
	st.sess.BaselineDraft = ""
	st.setFlash(fmt.Sprintf("Item %s excluído.", name), false)
	redirect(w, r, "/baseline?new")
}
