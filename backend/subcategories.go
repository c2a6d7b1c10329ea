package backend

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/store"
	"github.com/newsdesk/newsdesk/validate"
)

var subcategoriesTmpl = tmpl(`<h1>Subcategories</h1>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>Category</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ $categories := .CategoryNames }}
			{{ range .Subcategories }}
				<tr>
					<td>{{ .Name }}</td>
					<td>{{ index $categories .CategoryID }}</td>
					<td>
						<form method="post" action="/admin/subcategories/delete/{{ .ID }}">
							<button type="submit" class="btn btn-sm btn-outline-danger">Delete</button>
						</form>
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<h2>Create Subcategory</h2>

	<form method="post" class="form-inline">
		<div class="form-group">
			<input class="form-control" name="name" placeholder="Subcategory name">
			<select class="form-control mx-sm-1" name="category_id">
				<option value="">Category...</option>
				{{ range .Categories }}
					<option value="{{ .ID }}">{{ .Name }}</option>
				{{ end }}
			</select>
			<button type="submit" class="btn btn-primary mx-sm-3" name="submit_add">Create subcategory</button>
		</div>
	</form>`)

type subcategoriesData struct {
	*Route
	Categories    []store.Category
	Subcategories []store.Subcategory
}

// CategoryNames maps category ids to names, for display of the reference.
func (data *subcategoriesData) CategoryNames() map[string]string {
	var names = make(map[string]string)
	for _, category := range data.Categories {
		names[category.ID] = category.Name
	}
	return names
}

func subcategories(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		name := strings.TrimSpace(req.PostFormValue("name"))
		categoryID := req.PostFormValue("category_id")

		if errs := formError(validate.Subcategory(name, categoryID)); errs != nil {
			r.Danger(errs)
		} else if _, err := r.app.Subcategories.Create(req.Context(), r.Token(), name, categoryID); err != nil {
			r.Danger(err)
		} else {
			r.Success("subcategory %s has been created", name)
		}
		r.SeeOther("/admin/subcategories")
		return nil
	}

	r.app.Categories.FetchAll(req.Context(), r.Token())
	r.app.Subcategories.FetchAll(req.Context(), r.Token())

	return subcategoriesTmpl.Execute(w, &subcategoriesData{
		Route:         r,
		Categories:    r.app.Categories.All(),
		Subcategories: r.app.Subcategories.All(),
	})
}

func deleteSubcategory(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if err := r.app.Subcategories.Delete(req.Context(), r.Token(), params.ByName("id")); err != nil {
		r.Danger(err)
	} else {
		r.Success("subcategory has been deleted")
	}

	r.SeeOther("/admin/subcategories")
	return nil
}
