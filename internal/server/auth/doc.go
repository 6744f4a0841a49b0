// Package auth is the authentication core of the server: bcrypt password
// hashing, HS256 session tokens, the bearer-token Gate that resolves the
// calling identity, and the ownership check applied before mutations.
//
// Transports call Gate.Authenticate once per protected call and attach the
// result with WithIdentity; mutation paths then call Authorize with the
// attached identity and the resource owner.
package auth
