package common

// AuthorizationHeaderName is the HTTP header (and lower-cased gRPC metadata
// key) carrying the bearer credential.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the session token inside the Authorization value.
const BearerScheme = "Bearer"
