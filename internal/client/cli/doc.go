// Package cli provides the interactive ArtVault command-line client.
//
// It wires configuration, the gRPC auth service and the REST artwork service
// into a small REPL. Typical flow: register or log in, then create artworks
// and upload their images.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
