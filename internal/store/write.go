package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/querysql"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteSite inserts or replaces a site record.
//
// Note: the activity, partner and location must exist (foreign key constraint).
func (s *Store) WriteSite(ctx context.Context, site domain.Site) error {
	return writeSite(ctx, s.db, site)
}

// DeleteSite marks a site deleted. Deleted sites are invisible to every
// site query but keep their reported values.
func (s *Store) DeleteSite(ctx context.Context, siteID int, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE site SET date_deleted = ? WHERE id = ? AND date_deleted IS NULL
	`, at.Format(dateLayout), siteID)
	if err != nil {
		return fmt.Errorf("delete site %d: %w", siteID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete site %d: %w", siteID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete site %d: %w", siteID, ErrNotFound)
	}
	return nil
}

func writeUser(ctx context.Context, ex execer, u domain.User) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO users (id, email, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET email = excluded.email, name = excluded.name
	`, u.ID, u.Email, u.Name)
	if err != nil {
		return fmt.Errorf("write user %d: %w", u.ID, err)
	}
	return nil
}

func writeDatabase(ctx context.Context, ex execer, db domain.UserDatabase) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO user_database (id, name, owner_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, owner_id = excluded.owner_id
	`, db.ID, db.Name, db.OwnerID)
	if err != nil {
		return fmt.Errorf("write database %d: %w", db.ID, err)
	}
	return nil
}

func writePartner(ctx context.Context, ex execer, p domain.Partner) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO partner (id, name, full_name, name_folded) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			full_name = excluded.full_name,
			name_folded = excluded.name_folded
	`, p.ID, p.Name, p.FullName, querysql.Fold(p.Name))
	if err != nil {
		return fmt.Errorf("write partner %d: %w", p.ID, err)
	}
	return nil
}

func writeActivity(ctx context.Context, ex execer, a domain.Activity) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO activity (id, database_id, name, assessment, sort_order) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			database_id = excluded.database_id,
			name = excluded.name,
			assessment = excluded.assessment,
			sort_order = excluded.sort_order
	`, a.ID, a.DatabaseID, a.Name, marshalBool(a.Assessment), a.SortOrder)
	if err != nil {
		return fmt.Errorf("write activity %d: %w", a.ID, err)
	}
	return nil
}

func writeAdminLevel(ctx context.Context, ex execer, l domain.AdminLevel) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO admin_level (id, name, parent_id) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, parent_id = excluded.parent_id
	`, l.ID, l.Name, marshalOptionalID(l.ParentID))
	if err != nil {
		return fmt.Errorf("write admin level %d: %w", l.ID, err)
	}
	return nil
}

func writeAdminEntity(ctx context.Context, ex execer, e domain.AdminEntity) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO admin_entity (id, level_id, name, code, parent_id) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			level_id = excluded.level_id,
			name = excluded.name,
			code = excluded.code,
			parent_id = excluded.parent_id
	`, e.ID, e.LevelID, e.Name, e.Code, marshalOptionalID(e.ParentID))
	if err != nil {
		return fmt.Errorf("write admin entity %d: %w", e.ID, err)
	}
	return nil
}

// writeLocation replaces the location and its admin entity links.
func writeLocation(ctx context.Context, ex execer, l domain.Location) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO location (id, name, axe, x, y, name_folded, axe_folded) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			axe = excluded.axe,
			x = excluded.x,
			y = excluded.y,
			name_folded = excluded.name_folded,
			axe_folded = excluded.axe_folded
	`, l.ID, l.Name, l.Axe, marshalFloat(l.X), marshalFloat(l.Y), querysql.Fold(l.Name), querysql.Fold(l.Axe))
	if err != nil {
		return fmt.Errorf("write location %d: %w", l.ID, err)
	}

	if _, err := ex.ExecContext(ctx, `DELETE FROM location_admin_link WHERE location_id = ?`, l.ID); err != nil {
		return fmt.Errorf("write location %d links: %w", l.ID, err)
	}
	for _, entityID := range l.AdminEntityIDs {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO location_admin_link (location_id, admin_entity_id) VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, l.ID, entityID)
		if err != nil {
			return fmt.Errorf("write location %d link to entity %d: %w", l.ID, entityID, err)
		}
	}
	return nil
}

func writeSite(ctx context.Context, ex execer, site domain.Site) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO site (id, activity_id, partner_id, location_id, date1, date2, status, comments, comments_folded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			activity_id = excluded.activity_id,
			partner_id = excluded.partner_id,
			location_id = excluded.location_id,
			date1 = excluded.date1,
			date2 = excluded.date2,
			status = excluded.status,
			comments = excluded.comments,
			comments_folded = excluded.comments_folded
	`,
		site.ID,
		site.ActivityID,
		site.PartnerID,
		site.LocationID,
		marshalDate(site.Date1),
		marshalDate(site.Date2),
		site.Status,
		site.Comments,
		querysql.Fold(site.Comments),
	)
	if err != nil {
		return fmt.Errorf("write site %d: %w", site.ID, err)
	}
	return nil
}

func writeAttribute(ctx context.Context, ex execer, a domain.Attribute) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO attribute (id, group_id, name) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET group_id = excluded.group_id, name = excluded.name
	`, a.ID, a.GroupID, a.Name)
	if err != nil {
		return fmt.Errorf("write attribute %d: %w", a.ID, err)
	}
	return nil
}

func writeAttributeValue(ctx context.Context, ex execer, v domain.AttributeValue) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO attribute_value (site_id, attribute_id, value) VALUES (?, ?, ?)
		ON CONFLICT(site_id, attribute_id) DO UPDATE SET value = excluded.value
	`, v.SiteID, v.AttributeID, marshalBool(v.Value))
	if err != nil {
		return fmt.Errorf("write attribute value site=%d attribute=%d: %w", v.SiteID, v.AttributeID, err)
	}
	return nil
}

func writeIndicator(ctx context.Context, ex execer, i domain.Indicator) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO indicator (id, activity_id, name, units, description, category, list_header, aggregation, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			activity_id = excluded.activity_id,
			name = excluded.name,
			units = excluded.units,
			description = excluded.description,
			category = excluded.category,
			list_header = excluded.list_header,
			aggregation = excluded.aggregation,
			sort_order = excluded.sort_order
	`,
		i.ID,
		i.ActivityID,
		i.Name,
		i.Units,
		i.Description,
		i.Category,
		i.ListHeader,
		int(i.Aggregation),
		i.SortOrder,
	)
	if err != nil {
		return fmt.Errorf("write indicator %d: %w", i.ID, err)
	}
	return nil
}

// writeReportingPeriod replaces the period and all of its values.
func writeReportingPeriod(ctx context.Context, ex execer, rp domain.ReportingPeriod) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO reporting_period (id, site_id, date1, date2) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET site_id = excluded.site_id, date1 = excluded.date1, date2 = excluded.date2
	`, rp.ID, rp.SiteID, marshalDate(rp.Date1), marshalDate(rp.Date2))
	if err != nil {
		return fmt.Errorf("write reporting period %d: %w", rp.ID, err)
	}

	if _, err := ex.ExecContext(ctx, `DELETE FROM indicator_value WHERE reporting_period_id = ?`, rp.ID); err != nil {
		return fmt.Errorf("write reporting period %d values: %w", rp.ID, err)
	}
	for indicatorID, value := range rp.Values {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO indicator_value (reporting_period_id, indicator_id, value) VALUES (?, ?, ?)
		`, rp.ID, indicatorID, value)
		if err != nil {
			return fmt.Errorf("write reporting period %d indicator %d: %w", rp.ID, indicatorID, err)
		}
	}
	return nil
}

func writePermission(ctx context.Context, ex execer, p domain.Permission) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO user_permission (user_id, database_id, partner_id, allow_view, allow_view_all)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, database_id) DO UPDATE SET
			partner_id = excluded.partner_id,
			allow_view = excluded.allow_view,
			allow_view_all = excluded.allow_view_all
	`, p.UserID, p.DatabaseID, p.PartnerID, marshalBool(p.AllowView), marshalBool(p.AllowViewAll))
	if err != nil {
		return fmt.Errorf("write permission user=%d database=%d: %w", p.UserID, p.DatabaseID, err)
	}
	return nil
}
