package entity

// AdminLoginData is what the token middleware places in the request locals
// after a verified admin token.
type AdminLoginData struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
