// Package cli implements the interactive strengthsmap client: a line-based
// REPL over a session that is either a guest (list kept in memory) or signed
// in (list kept by the server).
package cli
