// Package client talks to the strengthsmap HTTP API.
//
// Errors are normalized so callers can branch with errors.Is:
//
//   - ErrUnavailable: the server could not be reached.
//   - ErrUnauthorized: the token or credentials were rejected (401).
//   - ErrNotFound: the resource or the token's account is gone (404).
//   - ErrBadRequest: the server rejected the input (400); the message is kept.
package client
