package dto

import (
	"strconv"
	"strings"
)

// Property name prefixes used by grid columns for computed fields.
const (
	IndicatorPropertyPrefix  = "I"
	AdminLevelPropertyPrefix = "a"
)

// IndicatorPropertyName is the column name of an indicator in a site grid.
func IndicatorPropertyName(indicatorID int) string {
	return IndicatorPropertyPrefix + strconv.Itoa(indicatorID)
}

// IndicatorIDForPropertyName parses "I<id>".
func IndicatorIDForPropertyName(name string) (int, bool) {
	return idWithPrefix(name, IndicatorPropertyPrefix)
}

// AdminLevelPropertyName is the column name of an admin level in a site grid.
func AdminLevelPropertyName(levelID int) string {
	return AdminLevelPropertyPrefix + strconv.Itoa(levelID)
}

// LevelIDForPropertyName parses "a<id>".
func LevelIDForPropertyName(name string) (int, bool) {
	return idWithPrefix(name, AdminLevelPropertyPrefix)
}

func idWithPrefix(name, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}
