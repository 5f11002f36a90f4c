package server

// Server is the lifecycle contract of the API server handed to main.
//
// RunServer blocks until shutdown is requested (a termination signal or a
// Shutdown call) and drains in-flight requests before returning.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
