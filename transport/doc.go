// Package transport provides the HTTP resource client consumed by the batch
// engine and the graph handle.
//
// The package deliberately exposes a single-method Client interface: the rest
// of the library only ever POSTs JSON to a service endpoint. Three
// implementations are provided:
//
//   - HTTPClient: production implementation over net/http
//   - MockClient: scripted, call-recording implementation for tests
//   - TracedClient: OpenTelemetry tracing decorator around any Client
//
// Non-2xx responses surface as *ServerError carrying the remote exception
// identity (class name, fully qualified name, message, stack trace, nested
// cause) parsed from the service's JSON error payload. The transport performs
// no retries: a Post either reaches the server once or fails locally.
package transport
