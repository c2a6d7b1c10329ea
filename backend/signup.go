package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/newsdesk/newsdesk/validate"
)

var signupTmpl = tmpl(`<h1>Sign up</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="email" value="{{ .Email }}" required autofocus>
		</div>
		<div class="form-group">
			<label>First name</label>
			<input type="text" class="form-control" name="first_name" value="{{ .FirstName }}" required>
		</div>
		<div class="form-group">
			<label>Last name</label>
			<input type="text" class="form-control" name="last_name" value="{{ .LastName }}" required>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<label>Repeat password</label>
			<input type="password" class="form-control" name="confirm_password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="signup">Sign up</button>
		</div>
	</form>`)

type signupData struct {
	*Route
	Email     string
	FirstName string
	LastName  string
}

func signup(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var data = &signupData{Route: r}

	if req.Method == http.MethodPost {

		data.Email = req.PostFormValue("email")
		data.FirstName = req.PostFormValue("first_name")
		data.LastName = req.PostFormValue("last_name")
		password := req.PostFormValue("password")
		confirm := req.PostFormValue("confirm_password")

		if errs := validate.Signup(data.Email, password, confirm, data.FirstName, data.LastName); !errs.Valid() {
			r.Danger(errs)
			return signupTmpl.Execute(w, data)
		}

		if _, err := r.app.Auth.SignUp(req.Context(), data.Email, password, data.FirstName, data.LastName); err != nil {
			r.Danger(err)
			return signupTmpl.Execute(w, data)
		}

		r.Success("Your account has been created. You can sign in now.")
		r.SeeOther("/auth/login")
		return nil
	}

	return signupTmpl.Execute(w, data)
}
