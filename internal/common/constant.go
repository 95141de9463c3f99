package common

// AuthorizationHeaderName is the HTTP header that carries the bearer
// credential on inbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the conventional scheme prefix on the Authorization header.
const BearerPrefix = "Bearer "
