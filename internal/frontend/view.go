package frontend

// View is a snapshot of everything the page shows.
type View struct {
	State                  UIState `json:"-"`
	StateName              string  `json:"state"`
	ProfileFormVisible     bool    `json:"profile_form_visible"`
	RecommendationsVisible bool    `json:"recommendations_visible"`
	LogoutVisible          bool    `json:"logout_visible"`
	AuthMsg                string  `json:"auth_msg"`
	ProfileMsg             string  `json:"profile_msg"`
	RecOutput              string  `json:"rec_output"`
}

// visibility is derived from the state, never stored on its own
func (v View) withDerived() View {
	shown := v.State == Authenticated
	v.StateName = v.State.String()
	v.ProfileFormVisible = shown
	v.RecommendationsVisible = shown
	v.LogoutVisible = shown
	return v
}
