package backend

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var loginTmpl = tmpl(`<h1>Login</h1>
	<form method="post" style="max-width: 20rem; margin: auto;">
		<input type="hidden" name="redirect" value="{{ .Redirect }}">
		<div class="form-group">
			<label>E-Mail</label>
			<input type="email" class="form-control" name="email" value="{{ .Email }}" required autofocus>
		</div>
		<div class="form-group">
			<label>Password</label>
			<input type="password" class="form-control" name="password" required>
		</div>
		<div class="form-group">
			<button type="submit" class="btn btn-primary" name="login">Login</button>
		</div>
		<p><a href="/auth/signup">Create an account</a></p>
	</form>`)

type loginData struct {
	*Route
	Email    string
	Redirect string
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	return "/admin"
}

func login(w http.ResponseWriter, req *http.Request, r *Route, params httprouter.Params) error {

	var email string
	var redirect = req.URL.Query().Get("redirect")

	if req.Method == http.MethodPost {

		email = req.PostFormValue("email")
		password := req.PostFormValue("password")
		redirect = req.PostFormValue("redirect")

		err := r.Login(email, password)
		if err == nil {
			r.SeeOther("%s", safeRedirect(redirect))
			return nil
		} else {
			r.Danger(err)
			// keep POST data for email field
		}
	}

	return loginTmpl.Execute(w, &loginData{
		Route:    r,
		Email:    email,
		Redirect: redirect,
	})
}
