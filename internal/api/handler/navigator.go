package handler

// redirectNavigator records where a controller wants the browser to go. The
// handler turns the last recorded route into a 303 redirect.
type redirectNavigator struct {
	route string
}

func (n *redirectNavigator) Navigate(route string) {
	n.route = route
}
