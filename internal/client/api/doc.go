// Package api talks to the remote authentication service over HTTP/JSON.
//
// Fetcher is the transport: it attaches the bearer token and a request ID,
// and calls the caller's expiration callback when the server answers 401
// before handing the response back. Client maps the five auth endpoints
// onto typed responses.
//
// # Error Handling
//
// A request that could not complete (dial failure, timeout, unreadable
// body) returns an error wrapping ErrNetwork. Everything the server did
// answer comes back as a response value; callers must treat any response
// without Success == true as a rejection, whatever else it carries.
package api
