package backend

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/auth"
	"github.com/newsdesk/newsdesk/validate"
)

var profileTmpl = tmpl(`<h1>My Profile</h1>

	<form method="post" style="max-width: 30rem;">
		<div class="form-group">
			<label>E-Mail</label>
			<input class="form-control" value="{{ .Email }}" disabled>
		</div>
		<div class="form-group">
			<label>Role</label>
			<input class="form-control" value="{{ .Profile.Role }}" disabled>
		</div>
		<div class="form-group">
			<label for="first_name">First name</label>
			<input class="form-control" id="first_name" name="first_name" value="{{ .Profile.FirstName }}">
		</div>
		<div class="form-group">
			<label for="last_name">Last name</label>
			<input class="form-control" id="last_name" name="last_name" value="{{ .Profile.LastName }}">
		</div>
		<button type="submit" class="btn btn-primary">Save</button>
	</form>`)

// ownProfile lets the signed-in user edit their display name. Email and role
// are shown read-only, the role can only be changed on the users page.
func ownProfile(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	if req.Method == http.MethodPost {

		firstName := strings.TrimSpace(req.PostFormValue("first_name"))
		lastName := strings.TrimSpace(req.PostFormValue("last_name"))

		if errs := formError(validate.Profile(firstName, lastName, string(r.Profile.Role))); errs != nil {
			r.Danger(errs)
		} else {
			updated, err := r.app.Profiles.Update(req.Context(), r.Token(), r.User.ID, auth.Profile{
				FirstName: firstName,
				LastName:  lastName,
				Role:      r.Profile.Role,
			})
			if err != nil {
				r.Danger(err)
			} else {
				r.Profile = updated
				r.Success("profile has been updated")
			}
		}
		r.SeeOther("/admin/profile")
		return nil
	}

	return profileTmpl.Execute(w, struct {
		*Route
		Email string
	}{
		Route: r,
		Email: r.User.Email,
	})
}
