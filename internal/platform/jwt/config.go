// Package jwtmw provides JWT verification middleware for user-scoped routes.
// Token issuance itself lives outside this service; the middleware only
// validates externally issued HS256 tokens and exposes the user ID.
package jwtmw

// EnvKeyJWTSecret is the environment variable holding the HMAC signing secret.
const EnvKeyJWTSecret = "JWT_SECRET"
