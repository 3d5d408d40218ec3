package models

//nolint:gosec // context keys, not credentials
const (
	MwSchemeBearerAuth = "BearerAuth"

	MwPrincipalKey = "principal"
	MwTokenKey     = "token"
)
