package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer sends an Authorization: Bearer header.
	AuthBearer
	// AuthAPIKey sends an API key in a header or query parameter.
	AuthAPIKey
)

// KeyLocation says where an API key is placed.
type KeyLocation string

const (
	KeyInHeader KeyLocation = "header"
	KeyInQuery  KeyLocation = "query"
)

const defaultAPIKeyName = "X-API-Key"

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Key is the API key value, placed In the header or query parameter
	// called Name (AuthAPIKey). Name defaults to X-API-Key.
	Key  string
	In   KeyLocation
	Name string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth creates an API key auth config sent via the named header.
// An empty name means X-API-Key.
func APIKeyAuth(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: KeyInHeader, Name: headerName}
}

// APIKeyAuthQuery creates an API key auth config sent via query parameter.
func APIKeyAuthQuery(key, paramName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, In: KeyInQuery, Name: paramName}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = defaultAPIKeyName
		}
		if a.In == KeyInQuery {
			q := req.URL.Query()
			q.Set(name, a.Key)
			req.URL.RawQuery = q.Encode()
			return
		}
		req.Header.Set(name, a.Key)
	}
}
