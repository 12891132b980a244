package session

// Route names a view of the client.
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

// Gate decides where a navigation should land based on the session alone.
type Gate struct {
	Session *Session
	// Login and Home default to RouteLogin and RouteDashboard.
	Login Route
	Home  Route
}

// NewGate returns a gate with the default routes.
func NewGate(s *Session) Gate {
	return Gate{Session: s, Login: RouteLogin, Home: RouteDashboard}
}

// Require returns route when authenticated, otherwise the login route.
func (g Gate) Require(route Route) (Route, bool) {
	if g.Session != nil && g.Session.Authenticated() {
		return route, true
	}
	return g.login(), false
}

// ForLogin sends authenticated users from the login view to the dashboard.
func (g Gate) ForLogin() (Route, bool) {
	if g.Session != nil && g.Session.Authenticated() {
		return g.home(), false
	}
	return g.login(), true
}

func (g Gate) login() Route {
	if g.Login == "" {
		return RouteLogin
	}
	return g.Login
}

func (g Gate) home() Route {
	if g.Home == "" {
		return RouteDashboard
	}
	return g.Home
}
