// Package tlsroots loads TLS material for the server and the CLI.
//
// The server side serves its certificate through a Reloader, which swaps
// the key pair in place when the files on disk change. The client side
// builds a root pool from the system store plus an optional CA bundle so
// the CLI can talk to servers using a private CA.
package tlsroots
