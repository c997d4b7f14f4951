package request

type OracleKeyRequest struct {
	APIKey string `json:"apiKey"`
}
