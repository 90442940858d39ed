package auth

// Identity represents a normalized external authentication identity
// returned by the OAuth provider. It contains facts only, no decisions.
type Identity struct {
	GoogleID      string // provider-scoped unique user identifier (sub)
	Email         string // primary email returned by provider
	EmailVerified bool   // whether provider asserts email ownership
	AccessToken   string // provider access token for the YouTube data API
}
