package dto

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse token emitido tras un login exitoso.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
