package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/filter"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		field string
		want  SortKey
		ok    bool
	}{
		{"date1", ColumnKey{Field: "date1"}, true},
		{"date2", ColumnKey{Field: "date2"}, true},
		{"locationName", ColumnKey{Field: "location_name"}, true},
		{"partner", ColumnKey{Field: "partner_name"}, true},
		{"locationAxe", ColumnKey{Field: "location_axe"}, true},
		{"I42", IndicatorKey{IndicatorID: 42}, true},
		{"a3", AdminLevelKey{LevelID: 3}, true},
		{"I", nil, false},
		{"Ix", nil, false},
		{"a-1", nil, false},
		{"comments", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := ParseSortKey(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSortDir(t *testing.T) {
	for in, want := range map[string]SortDir{"": SortNone, "none": SortNone, "asc": SortAsc, "DESC": SortDesc, " Asc ": SortAsc} {
		got, err := ParseSortDir(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortDir("up")
	assert.Error(t, err)
}

func TestGetSites_JSON(t *testing.T) {
	pivot := filter.NewPivot()
	pivot.AddRestriction(filter.DimensionPartner, 3)

	req := ForActivity(7)
	req.SortInfo = SortInfo{Field: "date2", Dir: SortDesc}
	req.Limit = 25
	req.PivotFilter = pivot

	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dir":"DESC"`)

	var decoded GetSites
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.ActivityID)
	assert.Equal(t, 7, *decoded.ActivityID)
	assert.Nil(t, decoded.SiteID)
	assert.Equal(t, SortDesc, decoded.SortInfo.Dir)
	assert.Equal(t, 25, decoded.Limit)
	assert.True(t, decoded.PivotFilter.IsRestricted(filter.DimensionPartner))
}

func TestGetSites_Validate(t *testing.T) {
	assert.NoError(t, (&GetSites{}).Validate())

	err := (&GetSites{Offset: -1}).Validate()
	assert.Equal(t, ErrCodeInvalidRequest, CodeOf(err))

	err = (&GetSites{Limit: -5}).Validate()
	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "limit", ce.Field)
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("handle: %w", NewQueryError("query sites", cause))

	assert.Equal(t, ErrCodeQueryFailed, CodeOf(err))
	assert.False(t, IsUserError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "handle: QUERY_FAILED: query sites: boom", err.Error())

	assert.True(t, IsUserError(NewFilterSyntaxError(cause)))
	assert.True(t, IsUserError(NewUnknownIndicatorError(9, nil)))
	assert.Equal(t, "UNKNOWN_INDICATOR: indicator 9 does not exist (field=sort_info)", NewUnknownIndicatorError(9, nil).Error())
	assert.Equal(t, ErrorCode(""), CodeOf(cause))
}

func TestDecodeMap(t *testing.T) {
	cmd, err := DecodeMap(map[string]any{
		"activity_id": 1,
		"sort_info":   map[string]any{"field": "date1", "dir": "desc"},
		"limit":       20,
	})
	require.NoError(t, err)
	require.NotNil(t, cmd.ActivityID)
	assert.Equal(t, 1, *cmd.ActivityID)
	assert.Equal(t, SortInfo{Field: "date1", Dir: SortDesc}, cmd.SortInfo)
	assert.Equal(t, 20, cmd.Limit)

	empty, err := DecodeMap(nil)
	require.NoError(t, err)
	assert.Equal(t, &GetSites{}, empty)

	_, err = DecodeMap(map[string]any{"offset": "ten"})
	assert.ErrorContains(t, err, "decode request")
}
