package handler

import (
	"fmt"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/filter"
)

// FilterParser parses free-text filters.
type FilterParser interface {
	Parse(input string) (criteria.Predicate, error)
}

// buildCriteria ANDs one predicate per present request field. Only the
// most specific of site, activity and database narrows the query.
func buildCriteria(cmd *command.GetSites, parser FilterParser) (criteria.Predicate, error) {
	conj := criteria.Conjunction()

	switch {
	case cmd.SiteID != nil:
		conj.Add(criteria.Eq{Field: "id", Value: criteria.Int(*cmd.SiteID)})
	case cmd.ActivityID != nil:
		conj.Add(criteria.Eq{Field: "activity_id", Value: criteria.Int(*cmd.ActivityID)})
	case cmd.DatabaseID != nil:
		conj.Add(criteria.Eq{Field: "database_id", Value: criteria.Int(*cmd.DatabaseID)})
	}

	if cmd.AssessmentsOnly {
		conj.Add(criteria.Eq{Field: "activity_assessment", Value: criteria.Bool(true)})
	}

	if cmd.Filter != "" {
		pred, err := parser.Parse(cmd.Filter)
		if err != nil {
			return nil, command.NewFilterSyntaxError(err)
		}
		conj.Add(pred)
	}

	if cmd.PivotFilter != nil {
		pred, err := filter.ResolveCriterion(cmd.PivotFilter)
		if err != nil {
			return nil, command.NewInvalidRequestError("pivot_filter", err.Error())
		}
		conj.Add(pred)
	}

	if conj.Len() == 0 {
		return nil, nil
	}
	if result := criteria.Validate(conj); !result.Valid {
		return nil, fmt.Errorf("invalid site criteria: %v", result.Problems)
	}
	return conj, nil
}
