// Package querysql compiles criteria trees and orderings to parameterized
// SQLite SQL.
//
// The compiler knows nothing about tables; a Schema maps logical field names
// to expressions and supplies the subqueries behind computed orderings. The
// site table DAO in internal/store is the only production Schema.
//
// Every ORDER BY ends with the schema's tiebreaker, so two executions of the
// same request return rows in the same order and seek pagination can count
// rows "before" a record without ambiguity.
package querysql
