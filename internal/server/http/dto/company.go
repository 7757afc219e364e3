package dto

import "time"

type CompanyRequest struct {
	CNPJ     string `json:"cnpj"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type Company struct {
	ID        string    `json:"id"`
	CNPJ      string    `json:"cnpj"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error       string   `json:"error"`
	Shortfall   int      `json:"shortfall,omitempty"`
	Fields      []string `json:"fields,omitempty"`
	Remediation string   `json:"remediation,omitempty"`
}
