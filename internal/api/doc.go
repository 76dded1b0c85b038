// Package api is the client for the letter numbering REST API.
//
// Every endpoint answers with the same JSON envelope:
//
//	{"success": true, "data": ..., "error": "...", "message": "...", "total": 0}
//
// The client unwraps it: success with data decodes into the caller's value,
// while success:false or an HTTP error status becomes an *APIError carrying
// the server's message. Transport failures wrap ErrNetwork, and a 401 matches
// ErrUnauthorized so callers can discard the stored session.
//
// A Client is safe for concurrent use. Requests carry the session's bearer
// token and a fresh X-Request-ID. They pass through a client-side rate limiter
// and are logged at debug level with their duration.
package api
