// Package criteria provides the predicate and ordering tree used to query
// the site table.
//
// Predicate and Order are sealed interfaces using the marker method pattern:
// only types in this package implement them, so backends (internal/querysql)
// can switch over every variant.
//
//	Conjunction()            empty And, grown with Add
//	Eq, Compare, In, Like    leaf predicates on a named field
//	And, Or, Not             composition
//	ColumnOrder              ORDER BY a named field
//	IndicatorOrder           ORDER BY a site's aggregated indicator value
//	AdminLevelOrder          ORDER BY the name of a site's admin entity
//
// Field names are logical ("activity_id", "partner_name"); the backend maps
// them to SQL expressions and rejects names it does not know.
//
// All literals are Value types so the backend can bind them as parameters;
// they are never interpolated into SQL text.
package criteria
