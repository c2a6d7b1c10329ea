package backend

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/store"
	"github.com/newsdesk/newsdesk/validate"
)

var categoriesTmpl = tmpl(`<h1>Categories</h1>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Categories }}
				<tr>
					<td>
						<form method="post" action="/admin/categories/update/{{ .ID }}" class="form-inline">
							<input class="form-control form-control-sm" name="name" value="{{ .Name }}">
							<button type="submit" class="btn btn-sm btn-outline-primary mx-sm-1">Rename</button>
						</form>
					</td>
					<td>
						<form method="post" action="/admin/categories/delete/{{ .ID }}">
							<button type="submit" class="btn btn-sm btn-outline-danger">Delete</button>
						</form>
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<h2>Create Category</h2>

	<form method="post" class="form-inline">
		<div class="form-group">
			<input class="form-control" name="name" placeholder="Category name">
			<button type="submit" class="btn btn-primary mx-sm-3" name="submit_add">Create category</button>
		</div>
	</form>`)

type categoriesData struct {
	*Route
	Categories []store.Category
}

func categories(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		name := strings.TrimSpace(req.PostFormValue("name"))

		if errs := formError(validate.Category(name)); errs != nil {
			r.Danger(errs)
		} else if _, err := r.app.Categories.Create(req.Context(), r.Token(), name); err != nil {
			r.Danger(err)
		} else {
			r.Success("category %s has been created", name)
		}
		r.SeeOther("/admin/categories")
		return nil
	}

	r.app.Categories.FetchAll(req.Context(), r.Token())

	return categoriesTmpl.Execute(w, &categoriesData{
		Route:      r,
		Categories: r.app.Categories.All(),
	})
}

func updateCategory(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	name := strings.TrimSpace(req.PostFormValue("name"))

	if errs := formError(validate.Category(name)); errs != nil {
		r.Danger(errs)
	} else if _, err := r.app.Categories.Update(req.Context(), r.Token(), params.ByName("id"), name); err != nil {
		r.Danger(err)
	} else {
		r.Success("category has been renamed to %s", name)
	}

	r.SeeOther("/admin/categories")
	return nil
}

func deleteCategory(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if err := r.app.Categories.Delete(req.Context(), r.Token(), params.ByName("id")); err != nil {
		r.Danger(err)
	} else {
		r.Success("category has been deleted")
	}

	r.SeeOther("/admin/categories")
	return nil
}
