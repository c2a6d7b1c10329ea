// Package backend is the HTML admin panel.
package backend

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/core"
	"github.com/newsdesk/newsdesk/util"
	"github.com/newsdesk/newsdesk/validate"
)

var ErrAuth = errors.New("unauthorized")

var ErrSelfDelete = errors.New("you can not delete your own account")

// Route carries one request through a handler.
type Route struct {
	*core.Request
	app *core.App
}

// guard levels for middleware
type access int

const (
	public       access = iota
	contentLevel        // admin or moderator
	adminLevel          // admin only
)

// middleware builds the Route. For guarded routes it relies on the fresh
// user and profile which App.NewRequest fetched for this very request, so a
// role change takes effect on the next navigation. Unauthenticated or
// unauthorized visitors are sent to the login page, carrying the original
// destination for the post-login redirect.
func middleware(app *core.App, level access, f func(http.ResponseWriter, *http.Request, *Route, httprouter.Params) error) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var r = &Route{
			Request: app.NewRequest(w, req),
			app:     app,
		}
		defer r.Cleanup()

		if level != public {
			if !r.LoggedIn() || r.Profile == nil {
				r.SeeOther("/auth/login?redirect=%s", url.QueryEscape(req.URL.RequestURI()))
				return
			}
			var allowed = r.CanManageContent()
			if level == adminLevel {
				allowed = r.IsAdmin()
			}
			if !allowed {
				r.Danger(ErrAuth)
				r.SeeOther("/auth/login?redirect=%s", url.QueryEscape(req.URL.RequestURI()))
				return
			}
		}

		if err := f(w, req, r, params); err != nil {
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*Route
				Err error
			}{
				Route: r,
				Err:   err,
			})
		}
	}
}

// formError returns errs as an error, or nil if the form is valid.
func formError(errs validate.Errors) error {
	if errs.Valid() {
		return nil
	}
	return errs
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func NewBackendRouter(app *core.App) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public; logout must stay reachable for every signed-in role
	router.GET("/", middleware(app, public, root))
	GETAndPOST("/auth/login", middleware(app, public, login))
	GETAndPOST("/auth/signup", middleware(app, public, signup))
	router.GET("/auth/logout", middleware(app, public, logout))

	// content management
	router.GET("/admin", middleware(app, contentLevel, dashboard))
	GETAndPOST("/admin/categories", middleware(app, contentLevel, categories))
	router.POST("/admin/categories/update/:id", middleware(app, contentLevel, updateCategory))
	router.POST("/admin/categories/delete/:id", middleware(app, contentLevel, deleteCategory))
	GETAndPOST("/admin/subcategories", middleware(app, contentLevel, subcategories))
	router.POST("/admin/subcategories/delete/:id", middleware(app, contentLevel, deleteSubcategory))
	router.GET("/admin/news", middleware(app, contentLevel, newsList))
	GETAndPOST("/admin/news/create", middleware(app, contentLevel, createNews))
	GETAndPOST("/admin/news/edit/:id", middleware(app, contentLevel, editNews))
	router.POST("/admin/news/delete/:id", middleware(app, contentLevel, deleteNews))
	GETAndPOST("/admin/profile", middleware(app, contentLevel, ownProfile))

	// user management
	GETAndPOST("/admin/users", middleware(app, adminLevel, users))
	router.POST("/admin/users/promote/:id", middleware(app, adminLevel, promoteUser))
	router.POST("/admin/users/delete/:id", middleware(app, adminLevel, deleteUser))

	return router
}

func root(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {
	if r.CanManageContent() {
		r.SeeOther("/admin")
	} else {
		r.SeeOther("/auth/login")
	}
	return nil
}

func tmpl(text string) *template.Template {
	t := template.Must(backendTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var backendTmpl = template.Must(template.New("backend").Funcs(
	template.FuncMap{
		"Preview": util.PreviewText,
	},
).Parse(`
<!DOCTYPE html>
<html>
	<head>
		<link rel="stylesheet" type="text/css" href="https://cdn.jsdelivr.net/npm/bootstrap@4.6.2/dist/css/bootstrap.min.css">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<title>Newsdesk</title>

		<style>

			body {
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			table {
				margin-top: 0.5rem;
				border-bottom: 1px solid #dee2e6;
			}

			textarea {
				tab-size: 4;
				-moz-tab-size: 4;
			}

		</style>
	</head>
	<body>

		{{ if .CanManageContent }}

			<nav class="navbar navbar-expand-md bg-light">
				<ul class="navbar-nav">
					<li class="nav-item">
						<a class="nav-link" href="/admin">Dashboard</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/admin/categories">Categories</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/admin/subcategories">Subcategories</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/admin/news">News</a>
					</li>

					{{ if .IsAdmin }}
						<li class="nav-item">
							<a class="nav-link" href="/admin/users">Users</a>
						</li>
					{{ end }}

					<li class="nav-item">
						<a class="nav-link" href="/admin/profile">{{ .Profile.Name }}</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="/auth/logout">Logout</a>
					</li>
				</ul>
			</nav>

		{{ end }}

		<div class="container pt-3">
			{{ .RenderNotifications }}
			{{ template "content" . }}
		</div>
	</body>
</html>`))
