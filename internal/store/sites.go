package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/querysql"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// Retrieve selects which enrichment queries Query runs after the main one.
type Retrieve uint8

const (
	RetrieveAdmin Retrieve = 1 << iota
	RetrieveAttributes
	RetrieveIndicators

	RetrieveNone Retrieve = 0
	RetrieveAll           = RetrieveAdmin | RetrieveAttributes | RetrieveIndicators
)

// SiteRow holds the scalar columns of one site, read in fixed order.
type SiteRow struct {
	ID           int
	ActivityID   int
	DatabaseID   int
	Date1        *time.Time
	Date2        *time.Time
	Status       int
	Comments     string
	LocationID   int
	LocationName string
	LocationAxe  string
	X            *float64
	Y            *float64
	PartnerID    int
	PartnerName  string
}

// ProjectionBinder receives query results as they stream from the store.
// NewInstance is called once per site, in result order, before any
// enrichment call for that site.
type ProjectionBinder interface {
	NewInstance(row SiteRow)
	SetAdminEntity(siteID int, entity domain.AdminEntity)
	SetAttributeValue(siteID, attributeID int, value bool)
	SetIndicatorValue(siteID, indicatorID int, value float64)
}

// enrichBatch bounds the number of ids bound into one IN list.
const enrichBatch = 500

const siteColumns = `s.id, s.activity_id, a.database_id, s.date1, s.date2, s.status, s.comments,
		l.id, l.name, l.axe, l.x, l.y, p.id, p.name`

const siteFrom = `site s
		JOIN activity a ON a.id = s.activity_id
		JOIN user_database d ON d.id = a.database_id
		JOIN partner p ON p.id = s.partner_id
		JOIN location l ON l.id = s.location_id`

// siteScope restricts rows to live sites the user may view. Binds the user
// id twice.
const siteScope = `s.date_deleted IS NULL AND (
		d.owner_id = ?
		OR EXISTS (
			SELECT 1 FROM user_permission up
			WHERE up.database_id = d.id AND up.user_id = ?
			AND (up.allow_view_all = 1 OR (up.allow_view = 1 AND up.partner_id = s.partner_id))
		))`

// siteFields maps logical site fields onto the aliases of siteFrom.
var siteFields = map[string]querysql.Column{
	"id":                  {Expr: "s.id"},
	"activity_id":         {Expr: "s.activity_id"},
	"database_id":         {Expr: "a.database_id"},
	"activity_assessment": {Expr: "a.assessment"},
	"date1":               {Expr: "s.date1"},
	"date2":               {Expr: "s.date2"},
	"status":              {Expr: "s.status"},
	"comments":            {Expr: "s.comments", Folded: "s.comments_folded"},
	"location_id":         {Expr: "s.location_id"},
	"location_name":       {Expr: "l.name", Folded: "l.name_folded"},
	"location_axe":        {Expr: "l.axe", Folded: "l.axe_folded"},
	"x":                   {Expr: "l.x"},
	"y":                   {Expr: "l.y"},
	"partner_id":          {Expr: "s.partner_id"},
	"partner_name":        {Expr: "p.name", Folded: "p.name_folded"},
	"admin_entity": {Link: &querysql.Link{
		Outer: "s.location_id",
		Table: "location_admin_link",
		Inner: "location_id",
		Key:   "admin_entity_id",
	}},
	"attribute": {Link: &querysql.Link{
		Outer: "s.id",
		Table: "attribute_value",
		Inner: "site_id",
		Key:   "attribute_id",
		Where: "value = 1",
	}},
	"indicator": {Link: &querysql.Link{
		Outer: "s.activity_id",
		Table: "indicator",
		Inner: "activity_id",
		Key:   "id",
	}},
}

// siteSchema implements querysql.Schema over siteFrom.
type siteSchema struct{}

func (siteSchema) Column(field string) (querysql.Column, bool) {
	col, ok := siteFields[field]
	return col, ok
}

func (siteSchema) IndicatorValue(indicatorID int, average bool) (string, []any) {
	fn := "SUM"
	if average {
		fn = "AVG"
	}
	return fmt.Sprintf(`(SELECT %s(iv.value) FROM indicator_value iv
		JOIN reporting_period rp ON rp.id = iv.reporting_period_id
		WHERE rp.site_id = s.id AND iv.indicator_id = ?)`, fn), []any{indicatorID}
}

func (siteSchema) AdminEntityName(levelID int) (string, []any) {
	return `(SELECT e.name FROM location_admin_link la
		JOIN admin_entity e ON e.id = la.admin_entity_id
		WHERE la.location_id = s.location_id AND e.level_id = ?)`, []any{levelID}
}

func (siteSchema) TieBreaker() string {
	return "s.id ASC"
}

// SiteTable runs authorization-scoped queries over sites.
type SiteTable struct {
	store    *Store
	compiler *querysql.SQLCompiler
}

// Sites returns the site table of the store.
func (s *Store) Sites() *SiteTable {
	return &SiteTable{store: s, compiler: querysql.NewSQLCompiler(siteSchema{})}
}

// Query streams one page of sites matching where, in the given order, to
// the binder. A limit of zero or less returns every row from offset on.
func (t *SiteTable) Query(
	ctx context.Context,
	user domain.User,
	where criteria.Predicate,
	orders []criteria.Order,
	binder ProjectionBinder,
	retrieve Retrieve,
	offset, limit int,
) error {
	whereSQL, whereParams, err := t.compiler.Where(where)
	if err != nil {
		return fmt.Errorf("compile sites filter: %w", err)
	}
	orderSQL, orderParams, err := t.compiler.OrderBy(orders)
	if err != nil {
		return fmt.Errorf("compile sites order: %w", err)
	}

	query := fmt.Sprintf("SELECT %s\n\t\tFROM %s\n\t\tWHERE %s AND (%s)\n\t\tORDER BY %s",
		siteColumns, siteFrom, siteScope, whereSQL, orderSQL)
	params := []any{user.ID, user.ID}
	params = append(params, whereParams...)
	params = append(params, orderParams...)

	switch {
	case limit > 0:
		query += "\n\t\tLIMIT ? OFFSET ?"
		params = append(params, limit, max(offset, 0))
	case offset > 0:
		query += "\n\t\tLIMIT -1 OFFSET ?"
		params = append(params, offset)
	}

	rows, err := t.store.db.QueryContext(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var siteIDs []int
	for rows.Next() {
		row, err := scanSiteRow(rows)
		if err != nil {
			return err
		}
		binder.NewInstance(row)
		siteIDs = append(siteIDs, row.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate sites: %w", err)
	}
	rows.Close()

	slog.Debug("sites queried", "rows", len(siteIDs), "offset", offset, "limit", limit)

	if len(siteIDs) == 0 {
		return nil
	}
	if retrieve&RetrieveAdmin != 0 {
		if err := inBatches(siteIDs, func(ids []int) error { return t.bindAdminEntities(ctx, ids, binder) }); err != nil {
			return err
		}
	}
	if retrieve&RetrieveAttributes != 0 {
		if err := inBatches(siteIDs, func(ids []int) error { return t.bindAttributes(ctx, ids, binder) }); err != nil {
			return err
		}
	}
	if retrieve&RetrieveIndicators != 0 {
		if err := inBatches(siteIDs, func(ids []int) error { return t.bindIndicators(ctx, ids, binder) }); err != nil {
			return err
		}
	}
	return nil
}

// QueryCount counts every site matching where within the user's scope.
func (t *SiteTable) QueryCount(ctx context.Context, user domain.User, where criteria.Predicate) (int, error) {
	whereSQL, whereParams, err := t.compiler.Where(where)
	if err != nil {
		return 0, fmt.Errorf("compile sites filter: %w", err)
	}

	query := fmt.Sprintf("SELECT COUNT(*)\n\t\tFROM %s\n\t\tWHERE %s AND (%s)", siteFrom, siteScope, whereSQL)
	params := append([]any{user.ID, user.ID}, whereParams...)

	var count int
	if err := t.store.db.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sites: %w", err)
	}
	return count, nil
}

// QueryPageNumber returns the zero-based page, of size limit, on which
// siteID appears under where and orders. A site outside the result set is
// reported on page 0.
func (t *SiteTable) QueryPageNumber(
	ctx context.Context,
	user domain.User,
	where criteria.Predicate,
	orders []criteria.Order,
	limit, siteID int,
) (int, error) {
	if limit <= 0 {
		return 0, fmt.Errorf("page number requires a positive limit, got %d", limit)
	}
	whereSQL, whereParams, err := t.compiler.Where(where)
	if err != nil {
		return 0, fmt.Errorf("compile sites filter: %w", err)
	}
	orderSQL, orderParams, err := t.compiler.OrderBy(orders)
	if err != nil {
		return 0, fmt.Errorf("compile sites order: %w", err)
	}

	// Parameters bind in text order: the window's ORDER BY precedes WHERE.
	query := fmt.Sprintf(`SELECT rn FROM (
		SELECT s.id AS site_id, ROW_NUMBER() OVER (ORDER BY %s) - 1 AS rn
		FROM %s
		WHERE %s AND (%s)
	) WHERE site_id = ?`, orderSQL, siteFrom, siteScope, whereSQL)
	params := append([]any{}, orderParams...)
	params = append(params, user.ID, user.ID)
	params = append(params, whereParams...)
	params = append(params, siteID)

	var rowNumber int
	err = t.store.db.QueryRowContext(ctx, query, params...).Scan(&rowNumber)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Debug("seek target not in result set", "site_id", siteID)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("page number of site %d: %w", siteID, err)
	}
	return rowNumber / limit, nil
}

func (t *SiteTable) bindAdminEntities(ctx context.Context, siteIDs []int, binder ProjectionBinder) error {
	placeholders, params := inList(siteIDs)
	rows, err := t.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT s.id, e.id, e.level_id, e.name, e.code, e.parent_id
		FROM site s
		JOIN location_admin_link la ON la.location_id = s.location_id
		JOIN admin_entity e ON e.id = la.admin_entity_id
		WHERE s.id IN (%s)
		ORDER BY s.id, e.level_id
	`, placeholders), params...)
	if err != nil {
		return fmt.Errorf("query site admin entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			siteID   int
			entity   domain.AdminEntity
			parentID sql.NullInt64
		)
		if err := rows.Scan(&siteID, &entity.ID, &entity.LevelID, &entity.Name, &entity.Code, &parentID); err != nil {
			return fmt.Errorf("scan site admin entity: %w", err)
		}
		entity.ParentID = unmarshalOptionalID(parentID)
		binder.SetAdminEntity(siteID, entity)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate site admin entities: %w", err)
	}
	return nil
}

func (t *SiteTable) bindAttributes(ctx context.Context, siteIDs []int, binder ProjectionBinder) error {
	placeholders, params := inList(siteIDs)
	rows, err := t.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT site_id, attribute_id, value
		FROM attribute_value
		WHERE site_id IN (%s)
		ORDER BY site_id, attribute_id
	`, placeholders), params...)
	if err != nil {
		return fmt.Errorf("query site attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var siteID, attributeID int
		var value bool
		if err := rows.Scan(&siteID, &attributeID, &value); err != nil {
			return fmt.Errorf("scan site attribute: %w", err)
		}
		binder.SetAttributeValue(siteID, attributeID, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate site attributes: %w", err)
	}
	return nil
}

// bindIndicators aggregates each indicator over the site's reporting
// periods, averaging indicators whose aggregation is average and summing
// the rest.
func (t *SiteTable) bindIndicators(ctx context.Context, siteIDs []int, binder ProjectionBinder) error {
	placeholders, params := inList(siteIDs)
	rows, err := t.store.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT rp.site_id, iv.indicator_id,
			CASE i.aggregation WHEN %d THEN AVG(iv.value) ELSE SUM(iv.value) END
		FROM indicator_value iv
		JOIN reporting_period rp ON rp.id = iv.reporting_period_id
		JOIN indicator i ON i.id = iv.indicator_id
		WHERE rp.site_id IN (%s)
		GROUP BY rp.site_id, iv.indicator_id, i.aggregation
		ORDER BY rp.site_id, iv.indicator_id
	`, int(domain.AggregateAverage), placeholders), params...)
	if err != nil {
		return fmt.Errorf("query site indicators: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var siteID, indicatorID int
		var value float64
		if err := rows.Scan(&siteID, &indicatorID, &value); err != nil {
			return fmt.Errorf("scan site indicator: %w", err)
		}
		binder.SetIndicatorValue(siteID, indicatorID, value)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate site indicators: %w", err)
	}
	return nil
}

func scanSiteRow(rows *sql.Rows) (SiteRow, error) {
	var (
		row          SiteRow
		date1, date2 sql.NullString
		x, y         sql.NullFloat64
	)
	err := rows.Scan(
		&row.ID,
		&row.ActivityID,
		&row.DatabaseID,
		&date1,
		&date2,
		&row.Status,
		&row.Comments,
		&row.LocationID,
		&row.LocationName,
		&row.LocationAxe,
		&x,
		&y,
		&row.PartnerID,
		&row.PartnerName,
	)
	if err != nil {
		return SiteRow{}, fmt.Errorf("scan site: %w", err)
	}
	if row.Date1, err = unmarshalDate(date1); err != nil {
		return SiteRow{}, fmt.Errorf("site %d: %w", row.ID, err)
	}
	if row.Date2, err = unmarshalDate(date2); err != nil {
		return SiteRow{}, fmt.Errorf("site %d: %w", row.ID, err)
	}
	row.X = unmarshalFloat(x)
	row.Y = unmarshalFloat(y)
	return row, nil
}

func inList(ids []int) (string, []any) {
	params := make([]any, len(ids))
	for i, id := range ids {
		params[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), params
}

func inBatches(ids []int, fn func([]int) error) error {
	for start := 0; start < len(ids); start += enrichBatch {
		end := min(start+enrichBatch, len(ids))
		if err := fn(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}
