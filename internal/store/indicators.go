package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VladmirB/sigmah/internal/domain"
)

const indicatorColumns = `id, activity_id, name, units, description, category, list_header, aggregation, sort_order`

// FindIndicator retrieves an indicator by id.
// Returns an error wrapping ErrNotFound if it does not exist.
func (s *Store) FindIndicator(ctx context.Context, id int) (domain.Indicator, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+indicatorColumns+` FROM indicator WHERE id = ?`, id)
	ind, err := scanIndicator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Indicator{}, fmt.Errorf("indicator %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Indicator{}, fmt.Errorf("indicator %d: %w", id, err)
	}
	return ind, nil
}

// IndicatorsForActivity returns an activity's indicators by sort order.
//
// Returns an empty slice (not nil) if the activity has none.
func (s *Store) IndicatorsForActivity(ctx context.Context, activityID int) ([]domain.Indicator, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+indicatorColumns+`
		FROM indicator
		WHERE activity_id = ?
		ORDER BY sort_order ASC, id ASC
	`, activityID)
	if err != nil {
		return nil, fmt.Errorf("query indicators: %w", err)
	}
	defer rows.Close()

	indicators := []domain.Indicator{}
	for rows.Next() {
		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("scan indicator: %w", err)
		}
		indicators = append(indicators, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate indicators: %w", err)
	}
	return indicators, nil
}

// AdminLevels returns every admin level ordered by id.
func (s *Store) AdminLevels(ctx context.Context) ([]domain.AdminLevel, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, parent_id FROM admin_level ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query admin levels: %w", err)
	}
	defer rows.Close()

	levels := []domain.AdminLevel{}
	for rows.Next() {
		var l domain.AdminLevel
		var parentID sql.NullInt64
		if err := rows.Scan(&l.ID, &l.Name, &parentID); err != nil {
			return nil, fmt.Errorf("scan admin level: %w", err)
		}
		l.ParentID = unmarshalOptionalID(parentID)
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin levels: %w", err)
	}
	return levels, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanIndicator(r rowScanner) (domain.Indicator, error) {
	var ind domain.Indicator
	var aggregation int
	err := r.Scan(
		&ind.ID,
		&ind.ActivityID,
		&ind.Name,
		&ind.Units,
		&ind.Description,
		&ind.Category,
		&ind.ListHeader,
		&aggregation,
		&ind.SortOrder,
	)
	if err != nil {
		return domain.Indicator{}, err
	}
	ind.Aggregation = domain.Aggregation(aggregation)
	return ind, nil
}
