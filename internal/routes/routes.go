// Package routes is the table of page routes the client navigates
// between, with the guard metadata the server enforces.
package routes

const (
	Home     = "/"
	About    = "/about"
	Profile  = "/profile"
	SignUp   = "/signUp"
	SignIn   = "/signIn"
	NotFound = "not-found"
)

type Route struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// Table lists the page routes. Any other path resolves to the
// not-found route.
var Table = []Route{
	{Path: Home, Name: "home", RequiresAuth: true},
	{Path: About, Name: "about"},
	{Path: Profile, Name: "profile", RequiresAuth: true},
	{Path: SignUp, Name: "register"},
	{Path: SignIn, Name: "login"},
}

var notFound = Route{Path: "/*", Name: NotFound}

// Resolve returns the route serving path.
func Resolve(path string) Route {
	for _, r := range Table {
		if r.Path == path {
			return r
		}
	}
	return notFound
}
