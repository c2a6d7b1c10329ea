package validate

import (
	"github.com/newsdesk/newsdesk/auth"
)

var roleNames = []string{string(auth.Admin), string(auth.Moderator), string(auth.User)}

func roleRule() Rule {
	return OneOf(roleNames, "Please select a valid role")
}

func Category(name string) Errors {
	return Check(
		Field{Name: "name", Value: name, Rules: []Rule{Min(2, "Name"), Max(50, "Name")}},
	)
}

func Subcategory(name, categoryID string) Errors {
	return Check(
		Field{Name: "name", Value: name, Rules: []Rule{Min(2, "Name"), Max(50, "Name")}},
		Field{Name: "category_id", Value: categoryID, Rules: []Rule{Required("Please select a category")}},
	)
}

func NewsArticle(title, content, image, categoryID string) Errors {
	return Check(
		Field{Name: "title", Value: title, Rules: []Rule{Min(5, "Title"), Max(200, "Title")}},
		Field{Name: "content", Value: content, Rules: []Rule{Min(10, "Content")}},
		Field{Name: "image", Value: image, Optional: true, Rules: []Rule{URL()}},
		Field{Name: "category_id", Value: categoryID, Rules: []Rule{Required("Please select a category")}},
	)
}

func Profile(firstName, lastName, role string) Errors {
	return Check(
		Field{Name: "first_name", Value: firstName, Optional: true, Rules: []Rule{Min(2, "First name"), Max(50, "First name")}},
		Field{Name: "last_name", Value: lastName, Optional: true, Rules: []Rule{Min(2, "Last name"), Max(50, "Last name")}},
		Field{Name: "role", Value: role, Rules: []Rule{roleRule()}},
	)
}

func Login(email, password string) Errors {
	return Check(
		Field{Name: "email", Value: email, Rules: []Rule{Email()}},
		Field{Name: "password", Value: password, Rules: []Rule{Min(6, "Password")}},
	)
}

func Signup(email, password, confirmPassword, firstName, lastName string) Errors {
	var errs = Check(
		Field{Name: "email", Value: email, Rules: []Rule{Email()}},
		Field{Name: "password", Value: password, Rules: []Rule{Min(6, "Password")}},
		Field{Name: "first_name", Value: firstName, Rules: []Rule{Min(2, "First name"), Max(50, "First name")}},
		Field{Name: "last_name", Value: lastName, Rules: []Rule{Min(2, "Last name"), Max(50, "Last name")}},
	)
	if _, ok := errs["password"]; !ok && password != confirmPassword {
		errs["confirm_password"] = "Passwords don't match"
	}
	return errs
}

// UserForm validates the admin's create/edit user form. The password is
// optional when editing.
func UserForm(email, password string, passwordRequired bool, firstName, lastName, role string) Errors {
	return Check(
		Field{Name: "email", Value: email, Rules: []Rule{Email()}},
		Field{Name: "password", Value: password, Optional: !passwordRequired, Rules: []Rule{Min(6, "Password")}},
		Field{Name: "first_name", Value: firstName, Rules: []Rule{Min(2, "First name"), Max(50, "First name")}},
		Field{Name: "last_name", Value: lastName, Rules: []Rule{Min(2, "Last name"), Max(50, "Last name")}},
		Field{Name: "role", Value: role, Rules: []Rule{roleRule()}},
	)
}
