package ports

// Navigator moves the client to another screen. Routes are opaque targets.
type Navigator interface {
	Navigate(route string)
}

// Routes are the navigation targets used by the profile screen.
type Routes struct {
	Admin    string
	Bookings string
	Login    string
}
