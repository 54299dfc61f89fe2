// Package command defines the GetSites request and result exchanged with
// callers, the sort keys a request may name, and command-level errors.
package command
