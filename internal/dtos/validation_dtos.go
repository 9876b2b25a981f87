package dtos

// ValidationErrorDetail reports one failed field for a 400 response.
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
