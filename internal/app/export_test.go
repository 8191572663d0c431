package app

// SetGetwd replaces the working directory lookup.
func (a *App) SetGetwd(fn func() (string, error)) {
	a.getwd = fn
}
