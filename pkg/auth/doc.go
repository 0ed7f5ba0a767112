// Package auth manages the access-token lifecycle for the GigaChat API.
//
// A Manager owns the current Token and funnels every read, invalidation and
// replacement through its methods so that concurrent calls against one
// client cannot race on the shared token. Tokens are obtained through a
// TokenSource; two implementations exist, matching the two grant flows the
// API supports:
//
//   - OAuthSource exchanges an authorization-key string and a scope at the
//     dedicated OAuth endpoint (client-credentials flow).
//   - PasswordSource exchanges a username and password at the main API's
//     /token endpoint (resource-owner password flow).
//
// A Manager with no source never performs an exchange: Refresh is a no-op
// and the held token (if seeded from a pre-issued access token) is all the
// client ever has.
//
// Basic usage:
//
//	mgr := auth.NewManager(&auth.OAuthSource{
//	    Client:      authHTTPClient,
//	    URL:         "https://ngw.devices.sberbank.ru:9443/api/v2/oauth",
//	    Credentials: key,
//	    Scope:       "GIGACHAT_API_PERS",
//	}, auth.ManagerOptions{})
//
//	if err := mgr.Refresh(ctx); err != nil { ... }
//	cred, ok := mgr.Credential()
package auth
