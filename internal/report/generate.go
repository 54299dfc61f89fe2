package report

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/criteria"
	"github.com/VladmirB/sigmah/internal/domain"
	"github.com/VladmirB/sigmah/internal/dto"
)

// SiteQuerier executes GetSites requests.
type SiteQuerier interface {
	Execute(ctx context.Context, user domain.User, cmd *command.GetSites) (*command.SiteResult, error)
}

// IndicatorLookup resolves indicator ids for column headers.
type IndicatorLookup interface {
	Lookup(ctx context.Context, id int) (domain.Indicator, error)
}

// AdminLevelSource lists admin levels for column headers.
type AdminLevelSource interface {
	AdminLevels(ctx context.Context) ([]domain.AdminLevel, error)
}

var columnHeaders = map[string]string{
	"date1":        "Start",
	"date2":        "End",
	"locationName": "Location",
	"locationAxe":  "Axis",
	"partner":      "Partner",
	"comments":     "Comments",
	"status":       "Status",
}

// Generator fills the data of table elements by running their queries on
// behalf of a user.
type Generator struct {
	sites      SiteQuerier
	indicators IndicatorLookup
	levels     AdminLevelSource
}

// NewGenerator creates a generator over the given collaborators.
func NewGenerator(sites SiteQuerier, indicators IndicatorLookup, levels AdminLevelSource) *Generator {
	return &Generator{sites: sites, indicators: indicators, levels: levels}
}

// Generate fills every *Table of r. Other elements carry their own data and
// are left unchanged.
func (g *Generator) Generate(ctx context.Context, user domain.User, r *Report) error {
	var levelNames map[int]string
	for i, el := range r.Elements {
		table, ok := el.(*Table)
		if !ok {
			continue
		}
		if levelNames == nil {
			names, err := g.adminLevelNames(ctx)
			if err != nil {
				return err
			}
			levelNames = names
		}
		if err := g.fillTable(ctx, user, table, levelNames); err != nil {
			return fmt.Errorf("element %d (%s): %w", i, table.Title, err)
		}
	}
	return nil
}

func (g *Generator) adminLevelNames(ctx context.Context) (map[int]string, error) {
	levels, err := g.levels.AdminLevels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admin levels: %w", err)
	}
	names := make(map[int]string, len(levels))
	for _, l := range levels {
		names[l.ID] = l.Name
	}
	return names, nil
}

func (g *Generator) fillTable(ctx context.Context, user domain.User, t *Table, levelNames map[int]string) error {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		h, err := g.header(ctx, col, levelNames)
		if err != nil {
			return err
		}
		headers[i] = h
	}

	query := t.Query
	if query == nil {
		query = &command.GetSites{}
	}
	result, err := g.sites.Execute(ctx, user, query)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Sites))
	for _, site := range result.Sites {
		row := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			row[i] = cell(site, col)
		}
		rows = append(rows, row)
	}

	t.Headers = headers
	t.Rows = rows
	slog.Debug("report table generated", "title", t.Title, "rows", len(rows), "total", result.TotalLength)
	return nil
}

func (g *Generator) header(ctx context.Context, col string, levelNames map[int]string) (string, error) {
	if h, ok := columnHeaders[col]; ok {
		return h, nil
	}
	if id, ok := dto.IndicatorIDForPropertyName(col); ok {
		ind, err := g.indicators.Lookup(ctx, id)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", col, err)
		}
		return ind.Header(), nil
	}
	if id, ok := dto.LevelIDForPropertyName(col); ok {
		if name, ok := levelNames[id]; ok {
			return name, nil
		}
	}
	return col, nil
}

// cell formats one property of a site. Unknown properties are blank.
func cell(site *dto.Site, col string) string {
	switch col {
	case "date1":
		return formatDate(site.Date1)
	case "date2":
		return formatDate(site.Date2)
	case "locationName":
		return site.LocationName
	case "locationAxe":
		return site.LocationAxe
	case "partner":
		if site.Partner == nil {
			return ""
		}
		return site.Partner.Name
	case "comments":
		return site.Comments
	case "status":
		return strconv.Itoa(site.Status)
	}
	if id, ok := dto.IndicatorIDForPropertyName(col); ok {
		if v, ok := site.IndicatorValue(id); ok {
			return FormatNumber(v)
		}
		return ""
	}
	if id, ok := dto.LevelIDForPropertyName(col); ok {
		if e := site.AdminEntity(id); e != nil {
			return e.Name
		}
	}
	return ""
}

// FormatNumber prints v rounded to two decimals without trailing zeros.
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(criteria.DateLayout)
}
