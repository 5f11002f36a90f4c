// Package server wires and runs the application's HTTP server.
//
// It handles startup, OS signal handling, and graceful shutdown with a
// bounded drain timeout.
package server
