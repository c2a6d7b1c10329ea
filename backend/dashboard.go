package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/store"
)

var dashboardTmpl = tmpl(`<h1>Dashboard</h1>

	{{ with .Statistics }}
		<div class="row">
			<div class="col-sm-3"><div class="card mb-3"><div class="card-body"><h2>{{ .TotalNews }}</h2>News</div></div></div>
			<div class="col-sm-3"><div class="card mb-3"><div class="card-body"><h2>{{ .TotalCategories }}</h2>Categories</div></div></div>
			<div class="col-sm-3"><div class="card mb-3"><div class="card-body"><h2>{{ .TotalSubcategories }}</h2>Subcategories</div></div></div>
			<div class="col-sm-3"><div class="card mb-3"><div class="card-body"><h2>{{ .TotalProfiles }}</h2>Users</div></div></div>
		</div>
		<p>
			{{ .AdminCount }} admins,
			{{ .ModeratorCount }} moderators,
			{{ .UserCount }} users
		</p>
	{{ end }}

	<h2>News by category</h2>

	<table class="table table-sm">
		<tbody>
			{{ range $name, $count := .NewsByCategory }}
				<tr>
					<td>{{ $name }}</td>
					<td>{{ $count }}</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<div class="row">
		<div class="col-sm-6">
			<h2>Recent news</h2>
			<ul>
				{{ range .RecentNews }}
					<li><a href="/admin/news/edit/{{ .ID }}">{{ .Title }}</a> {{ with .CategoryName }}({{ . }}){{ end }}</li>
				{{ end }}
			</ul>
		</div>
		<div class="col-sm-6">
			<h2>Recent users</h2>
			<ul>
				{{ range .RecentProfiles }}
					<li>{{ .Name }} <span class="badge badge-secondary">{{ .Role }}</span></li>
				{{ end }}
			</ul>
		</div>
	</div>`)

type dashboardData struct {
	*Route
	Statistics     store.Statistics
	NewsByCategory map[string]int
	RecentNews     []store.News
	RecentProfiles []auth.Profile
}

func dashboard(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var token = r.Token()

	r.app.Stats.Fetch(req.Context(), token)
	if err := r.app.Stats.Err(); err != nil {
		r.Danger(err)
	}

	newsByCategory, err := r.app.Stats.NewsByCategory(req.Context(), token)
	if err != nil {
		r.Danger(err)
	}

	recentNews, err := r.app.Stats.RecentNews(req.Context(), token, 5)
	if err != nil {
		r.Danger(err)
	}

	recentProfiles, err := r.app.Stats.RecentProfiles(req.Context(), token, 5)
	if err != nil {
		r.Danger(err)
	}

	return dashboardTmpl.Execute(w, &dashboardData{
		Route:          r,
		Statistics:     r.app.Stats.Current(),
		NewsByCategory: newsByCategory,
		RecentNews:     recentNews,
		RecentProfiles: recentProfiles,
	})
}
