package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/command"
	"github.com/VladmirB/sigmah/internal/handler"
	"github.com/VladmirB/sigmah/internal/indicator"
	"github.com/VladmirB/sigmah/internal/testutil"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	s := testutil.SeededStore(t)
	indicators, err := indicator.NewService(s, 16)
	require.NoError(t, err)
	return NewGenerator(handler.NewGetSitesHandler(s.Sites(), indicators), indicators, s)
}

func TestGenerate_FillsTables(t *testing.T) {
	g := newTestGenerator(t)
	r := buildFile(t, "testdata/report.yaml")

	require.NoError(t, g.Generate(context.Background(), testutil.Owner, r))

	table := r.Elements[3].(*Table)
	assert.Equal(t, []string{"Location", "Partner", "Start", "Province", "Baches"}, table.Headers)
	// partners 1 and 2 with a period overlapping Q1 2009, by start date
	assert.Equal(t, [][]string{
		{"Penekusu", "NRC", "2009-01-01", "Nord Kivu", "150"},
		{"Boga", "NRC", "2009-01-15", "Sud Kivu", "300"},
		{"Kitchanga", "Solidarites", "2009-03-01", "Nord Kivu", "75"},
	}, table.Rows)
}

func TestGenerate_RespectsUserScope(t *testing.T) {
	g := newTestGenerator(t)
	r := buildFile(t, "testdata/report.yaml")

	require.NoError(t, g.Generate(context.Background(), testutil.Stranger, r))

	table := r.Elements[3].(*Table)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
}

func TestGenerate_BlankCells(t *testing.T) {
	g := newTestGenerator(t)
	r := &Report{Title: "t", Elements: []Element{&Table{
		Columns: []string{"date1", "I2", "a2", "status", "unknown"},
		Query:   command.ForSite(6),
	}}}

	require.NoError(t, g.Generate(context.Background(), testutil.Owner, r))

	table := r.Elements[0].(*Table)
	assert.Equal(t, []string{"Start", "Kits par menage", "Territoire", "Status", "unknown"}, table.Headers)
	assert.Equal(t, [][]string{{"", "", "Masisi", "0", ""}}, table.Rows)
}

func TestGenerate_AverageIndicator(t *testing.T) {
	g := newTestGenerator(t)
	r := &Report{Title: "t", Elements: []Element{&Table{
		Columns: []string{"I2"},
		Query:   command.ForSite(1),
	}}}

	require.NoError(t, g.Generate(context.Background(), testutil.Owner, r))

	assert.Equal(t, [][]string{{"15"}}, r.Elements[0].(*Table).Rows)
}

func TestGenerate_QueryErrorNamesElement(t *testing.T) {
	g := newTestGenerator(t)
	query := command.ForActivity(1)
	query.SortInfo = command.SortInfo{Field: "I99", Dir: command.SortAsc}
	r := &Report{Title: "t", Elements: []Element{
		&Map{Title: "m"},
		&Table{Title: "broken", Columns: []string{"locationName"}, Query: query},
	}}

	err := g.Generate(context.Background(), testutil.Owner, r)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1 (broken)")
	assert.Equal(t, command.ErrCodeUnknownIndicator, command.CodeOf(err))
}

func TestLoadNames(t *testing.T) {
	s := testutil.SeededStore(t)
	def, err := LoadFile("testdata/report.yaml")
	require.NoError(t, err)

	names, err := LoadNames(context.Background(), s, def.Filter)
	require.NoError(t, err)

	r, err := def.Build(names)
	require.NoError(t, err)
	assert.Equal(t, []string{"Partners: NRC, Solidarites", "Dates: 2009-01-01 to 2009-03-31"}, r.FilterDescriptions)
}
