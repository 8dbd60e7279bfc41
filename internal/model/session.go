package model

type AuthSession struct {
	State       string `json:"state,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

func (s AuthSession) Status() RunState {
	switch {
	case s.AccessToken != "":
		return StateAuthorized
	case s.State != "":
		return StateLoggingIn
	default:
		return StateIdle
	}
}
