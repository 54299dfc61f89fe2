// Package handler executes site commands against the store.
//
// GetSitesHandler turns a command.GetSites request into a predicate, an
// ordering and a page window, runs the page and count queries, and binds
// the streamed rows into DTOs that share partner and admin entity objects
// across rows.
package handler
