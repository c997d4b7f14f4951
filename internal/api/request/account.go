package request

type CreateAccountRequest struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
	AccountType string `json:"accountType"`
}

type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Institution *string `json:"institution,omitempty"`
	AccountType *string `json:"accountType,omitempty"`
}
