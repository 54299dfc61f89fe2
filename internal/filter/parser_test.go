package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladmirB/sigmah/internal/criteria"
)

func TestParse_Blank(t *testing.T) {
	p := NewParser()
	for _, input := range []string{"", "   ", "\t\n"} {
		pred, err := p.Parse(input)
		require.NoError(t, err)
		assert.Nil(t, pred)
	}
}

func TestParse(t *testing.T) {
	p := NewParser()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "text key",
			input: "partenaire:NRC",
			want:  `(partner_name LIKE "%NRC%")`,
		},
		{
			name:  "english alias",
			input: "partner:NRC",
			want:  `(partner_name LIKE "%NRC%")`,
		},
		{
			name:  "key ignores case and accents",
			input: "Activité:7",
			want:  `(activity_id = 7)`,
		},
		{
			name:  "quoted value",
			input: `lieu:"Goma Nord"`,
			want:  `(location_name LIKE "%Goma Nord%")`,
		},
		{
			name:  "date range",
			input: "debut>=2010-01-01 fin<2010-12-31",
			want:  `(date1 >= 2010-01-01 AND date2 < 2010-12-31)`,
		},
		{
			name:  "active on",
			input: "date:2010-06-15",
			want:  `((date1 <= 2010-06-15 AND date2 >= 2010-06-15))`,
		},
		{
			name:  "negated status",
			input: "-statut:0",
			want:  `(NOT (status = 0))`,
		},
		{
			name:  "bare term searches several fields",
			input: "goma",
			want:  `((location_name LIKE "%goma%" OR partner_name LIKE "%goma%" OR comments LIKE "%goma%"))`,
		},
		{
			name:  "mixed",
			input: `statut>1 -"croix rouge"`,
			want:  `(status > 1 AND NOT ((location_name LIKE "%croix rouge%" OR partner_name LIKE "%croix rouge%" OR comments LIKE "%croix rouge%")))`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pred, err := p.Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, criteria.Format(pred))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	p := NewParser()

	testCases := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unknown key", "couleur:rouge", `unknown filter key "couleur"`},
		{"comparison on text", "lieu>goma", `does not support ">"`},
		{"bad number", "statut:abc", "expects a whole number"},
		{"bad date", "debut>=2010-13-45", "invalid date"},
		{"active on with comparison", "date>2010-01-01", "only supports ':'"},
		{"missing value", "lieu:", ""},
		{"unterminated quote", `lieu:"goma`, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Parse(tc.input)
			require.Error(t, err)
			assert.True(t, IsSyntaxError(err), "want *SyntaxError, got %T", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "activite", foldKey("ACTIVITÉ"))
	assert.Equal(t, "debut", foldKey("Début"))
	assert.Equal(t, "lieu", foldKey("lieu"))
}
