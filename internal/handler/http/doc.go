// Package http implements the HTTP transport layer of the application.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as authentication, request tracing, access
// logging, and response compression are handled in this package before
// requests are delegated to the service layer. Handlers only decode requests,
// call services, and shape responses; visibility rules (anonymity, hidden
// comments, draft pages) are enforced by the services and the response
// constructors.
package http
