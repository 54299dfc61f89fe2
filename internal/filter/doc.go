// Package filter turns user-facing filters into criteria predicates.
//
// Two sources are supported:
//
//   - Parser: the free-text filter typed into the site grid's search box,
//     e.g. `partenaire:"Croix Rouge" debut>=2010-01-01 -statut:0 goma`.
//     Keys are French with English aliases and are matched ignoring case and
//     accents.
//   - Bridge: the structured Pivot filter produced by report and pivot
//     screens (dimension restrictions plus a date range).
package filter
