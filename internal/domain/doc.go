// Package domain holds the persistent entities of the site database.
//
// Entities mirror the relational schema in internal/store one to one. They
// carry no behavior beyond small accessors; transfer objects for callers live
// in internal/dto.
package domain
