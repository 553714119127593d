package dto

// GoogleLoginResponse carries the consent URL the browser is sent to and
// the state echoed back on the callback.
type GoogleLoginResponse struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// GoogleUserInfo is the profile read from Google's userinfo endpoint.
// Only a verified email may sign in.
type GoogleUserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
	Verified bool   `json:"verifiedEmail"`
}
