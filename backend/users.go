package backend

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/store"
	"github.com/newsdesk/newsdesk/validate"
)

var usersTmpl = tmpl(`<h1>Users</h1>

	<table class="table table-sm">
		<thead>
			<tr>
				<th>Name</th>
				<th>E-Mail</th>
				<th>Role</th>
				<th>Created</th>
				<th></th>
			</tr>
		</thead>
		<tbody>
			{{ range .Users }}
				<tr>
					<td>{{ .FirstName }} {{ .LastName }}</td>
					<td>{{ .Email }}</td>
					<td>
						<form method="post" action="/admin/users/promote/{{ .ID }}" class="form-inline">
							{{ $current := .Role }}
							<select class="form-control form-control-sm" name="role">
								{{ range $.Roles }}
									<option value="{{ . }}"{{ if eq . $current }} selected{{ end }}>{{ . }}</option>
								{{ end }}
							</select>
							<button type="submit" class="btn btn-sm btn-outline-primary mx-sm-1">Set role</button>
						</form>
					</td>
					<td>{{ $.FormatDateTime .CreatedAt }}</td>
					<td>
						<form method="post" action="/admin/users/delete/{{ .ID }}">
							<button type="submit" class="btn btn-sm btn-outline-danger">Delete</button>
						</form>
					</td>
				</tr>
			{{ end }}
		</tbody>
	</table>

	<h2>Create User</h2>

	<form method="post" style="max-width: 30rem;">
		<div class="form-group">
			<input type="email" class="form-control" name="email" placeholder="Email address">
		</div>
		<div class="form-group form-row">
			<div class="col">
				<input class="form-control" name="first_name" placeholder="First name">
			</div>
			<div class="col">
				<input class="form-control" name="last_name" placeholder="Last name">
			</div>
		</div>
		<div class="form-group form-row">
			<div class="col">
				<input type="password" class="form-control" name="password" placeholder="Password">
			</div>
			<div class="col">
				<select class="form-control" name="role">
					{{ range .Roles }}
						<option value="{{ . }}">{{ . }}</option>
					{{ end }}
				</select>
			</div>
		</div>
		<button type="submit" class="btn btn-primary" name="submit_add">Create user</button>
	</form>`)

type usersData struct {
	*Route
	Users []store.UserWithProfile
}

func (data *usersData) Roles() []auth.Role {
	return auth.AllRoles
}

func users(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		email := strings.TrimSpace(req.PostFormValue("email"))
		password := req.PostFormValue("password")
		firstName := strings.TrimSpace(req.PostFormValue("first_name"))
		lastName := strings.TrimSpace(req.PostFormValue("last_name"))
		role := req.PostFormValue("role")

		if errs := formError(validate.UserForm(email, password, true, firstName, lastName, role)); errs != nil {
			r.Danger(errs)
		} else if _, err := r.app.Users.Create(req.Context(), email, password, firstName, lastName, auth.Role(role)); err != nil {
			r.Danger(err)
		} else {
			r.Success("user %s has been created", email)
		}
		r.SeeOther("/admin/users")
		return nil
	}

	users, err := r.app.Users.FetchAll(req.Context())
	if err != nil {
		return err
	}

	return usersTmpl.Execute(w, &usersData{
		Route: r,
		Users: users,
	})
}

func promoteUser(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var role = auth.Role(req.PostFormValue("role"))
	if !role.Valid() {
		r.Danger(ErrAuth)
		r.SeeOther("/admin/users")
		return nil
	}

	if _, err := r.app.Profiles.UpdateRole(req.Context(), r.Token(), params.ByName("id"), role); err != nil {
		r.Danger(err)
	} else {
		r.Success("role has been set to %s", role)
	}

	r.SeeOther("/admin/users")
	return nil
}

func deleteUser(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if r.User != nil && r.User.ID == params.ByName("id") {
		r.Danger(ErrSelfDelete)
		r.SeeOther("/admin/users")
		return nil
	}

	if profile, err := r.app.Users.Delete(req.Context(), params.ByName("id")); err != nil {
		r.Danger(err)
	} else {
		r.Success("user %s has been deleted", profile.Name())
	}

	r.SeeOther("/admin/users")
	return nil
}
