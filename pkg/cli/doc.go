// Package cli holds helpers shared by the gigachat command-line tool:
// signal-aware contexts and user-facing presentation of the client's typed
// errors.
package cli
