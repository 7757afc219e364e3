package dto

// LoginRequest is the CNPJ/password payload.
type LoginRequest struct {
	CNPJ     string `json:"cnpj"`
	Password string `json:"password"`
}

// LoginResponse echoes the authenticated account and its session token.
type LoginResponse struct {
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Token     string `json:"token"`
}
