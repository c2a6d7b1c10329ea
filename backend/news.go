package backend

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/content"
	"github.com/newsdesk/newsdesk/store"
	"github.com/newsdesk/newsdesk/validate"
)

var newsListTmpl = tmpl(`<h1>News</h1>

	<p>
		<a class="btn btn-primary" href="/admin/news/create">Create article</a>
	</p>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Title</th>
				<th>Preview</th>
				<th>Category</th>
				<th>Created</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .News }}
				<tr>
					<td><a href="/admin/news/edit/{{ .ID }}">{{ .Title }}</a></td>
					<td>{{ Preview .Content 80 }}</td>
					<td>{{ .CategoryName }}</td>
					<td>{{ $.FormatDateTime .CreatedAt }}</td>
					<td>
						<form method="post" action="/admin/news/delete/{{ .ID }}">
							<button type="submit" class="btn btn-sm btn-outline-danger">Delete</button>
						</form>
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>`)

type newsListData struct {
	*Route
	News []store.News
}

func newsList(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	r.app.News.FetchAll(req.Context(), r.Token())

	return newsListTmpl.Execute(w, &newsListData{
		Route: r,
		News:  r.app.News.All(),
	})
}

var newsFormTmpl = tmpl(`<h1>{{ if .Item.ID }}Edit article{{ else }}Create article{{ end }}</h1>

	<form method="post">

		<div class="form-group">
			<label>Title</label>
			<input class="form-control" name="title" value="{{ .Item.Title }}" required>
		</div>

		<div class="form-group">
			<label>Content</label>
			<textarea class="form-control" name="content" rows="12">{{ .Item.Content }}</textarea>
		</div>

		<div class="form-group">
			<label>Format</label>
			<select class="form-control" name="format">
				{{ range .Formats }}
					<option value="{{ . }}">{{ . }}</option>
				{{ end }}
			</select>
		</div>

		<div class="form-group">
			<label>Image URL</label>
			<input class="form-control" name="image" value="{{ .Item.Image }}">
		</div>

		<div class="form-group">
			<label>Category</label>
			<select class="form-control" name="category_id">
				<option value="">Category...</option>
				{{ $selected := .Item.CategoryID }}
				{{ range .Categories }}
					<option value="{{ .ID }}"{{ if eq .ID $selected }} selected{{ end }}>{{ .Name }}</option>
				{{ end }}
			</select>
		</div>

		<div class="form-group">
			<label>Subcategory</label>
			<select class="form-control" name="subcategory_id">
				<option value="">None</option>
				{{ $selectedSub := .Item.SubcategoryID }}
				{{ range .Subcategories }}
					<option value="{{ .ID }}"{{ if eq .ID $selectedSub }} selected{{ end }}>{{ .Name }}</option>
				{{ end }}
			</select>
		</div>

		<button type="submit" class="btn btn-primary" name="save">Save</button>

	</form>`)

type newsFormData struct {
	*Route
	Item          store.News
	Formats       []string
	Categories    []store.Category
	Subcategories []store.Subcategory
}

func (r *Route) newsForm(w http.ResponseWriter, req *http.Request, item store.News) error {

	r.app.Categories.FetchAll(req.Context(), r.Token())
	r.app.Subcategories.FetchAll(req.Context(), r.Token())

	// offer only the subcategories of the chosen category
	var subcategories []store.Subcategory
	if item.CategoryID != "" {
		subcategories = r.app.Subcategories.ByCategory(item.CategoryID)
	} else {
		subcategories = r.app.Subcategories.All()
	}

	return newsFormTmpl.Execute(w, &newsFormData{
		Route:         r,
		Item:          item,
		Formats:       content.DefaultRegistry.All(),
		Categories:    r.app.Categories.All(),
		Subcategories: subcategories,
	})
}

// readNewsForm validates the posted form and renders the body in the chosen
// format. The stored content is always sanitized HTML.
func readNewsForm(req *http.Request) (store.News, error) {

	var item = store.News{
		Title:         strings.TrimSpace(req.PostFormValue("title")),
		Content:       req.PostFormValue("content"),
		Image:         strings.TrimSpace(req.PostFormValue("image")),
		CategoryID:    req.PostFormValue("category_id"),
		SubcategoryID: req.PostFormValue("subcategory_id"),
	}

	if errs := validate.NewsArticle(item.Title, item.Content, item.Image, item.CategoryID); !errs.Valid() {
		return item, errs
	}

	renderer, ok := content.DefaultRegistry.Get(req.PostFormValue("format"))
	if !ok {
		renderer, _ = content.DefaultRegistry.Get("html")
	}
	rendered, err := renderer.Render(item.Content)
	if err != nil {
		return item, err
	}
	item.Content = rendered

	return item, nil
}

func createNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		item, err := readNewsForm(req)
		if err != nil {
			r.Danger(err)
			return r.newsForm(w, req, item)
		}

		if r.User != nil {
			item.CreatedBy = r.User.ID
		}

		created, err := r.app.News.Create(req.Context(), r.Token(), item)
		if err != nil {
			r.Danger(err)
			return r.newsForm(w, req, item)
		}

		r.Success("article %s has been created", created.Title)
		r.SeeOther("/admin/news")
		return nil
	}

	return r.newsForm(w, req, store.News{})
}

func editNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var id = params.ByName("id")

	if req.Method == http.MethodPost {

		item, err := readNewsForm(req)
		if err != nil {
			r.Danger(err)
			item.ID = id
			return r.newsForm(w, req, item)
		}

		updated, err := r.app.News.Update(req.Context(), r.Token(), id, item)
		if err != nil {
			r.Danger(err)
			item.ID = id
			return r.newsForm(w, req, item)
		}

		r.Success("article %s has been saved", updated.Title)
		r.SeeOther("/admin/news")
		return nil
	}

	r.app.News.FetchAll(req.Context(), r.Token())
	item, ok := r.app.News.Get(id)
	if !ok {
		return errors.New("article not found")
	}

	return r.newsForm(w, req, item)
}

func deleteNews(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if err := r.app.News.Delete(req.Context(), r.Token(), params.ByName("id")); err != nil {
		r.Danger(err)
	} else {
		r.Success("article has been deleted")
	}

	r.SeeOther("/admin/news")
	return nil
}
