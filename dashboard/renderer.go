package dashboard

import "weather-dashboard/viewmodel"

// Renderer is a presentation surface. It only receives finished view models.
type Renderer interface {
	Render(view viewmodel.Dashboard)
	ShowError(message string)
	HideError()
	SetLoading(loading bool)
}

type nopRenderer struct{}

func (nopRenderer) Render(viewmodel.Dashboard) {}
func (nopRenderer) ShowError(string)           {}
func (nopRenderer) HideError()                 {}
func (nopRenderer) SetLoading(bool)            {}
