package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/VladmirB/sigmah/internal/domain"
)

// Fixture is a complete data set, loadable from YAML, written in
// foreign-key order by Seed.
type Fixture struct {
	Users            []domain.User            `yaml:"users"`
	Databases        []domain.UserDatabase    `yaml:"databases"`
	Partners         []domain.Partner         `yaml:"partners"`
	Activities       []domain.Activity        `yaml:"activities"`
	AdminLevels      []domain.AdminLevel      `yaml:"admin_levels"`
	AdminEntities    []domain.AdminEntity     `yaml:"admin_entities"`
	Locations        []domain.Location        `yaml:"locations"`
	Sites            []domain.Site            `yaml:"sites"`
	Attributes       []domain.Attribute       `yaml:"attributes"`
	AttributeValues  []domain.AttributeValue  `yaml:"attribute_values"`
	Indicators       []domain.Indicator       `yaml:"indicators"`
	ReportingPeriods []domain.ReportingPeriod `yaml:"reporting_periods"`
	Permissions      []domain.Permission      `yaml:"permissions"`
}

// LoadFixture decodes a YAML fixture. Unknown keys are rejected.
func LoadFixture(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixtureFile reads a YAML fixture from disk.
func LoadFixtureFile(path string) (*Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	f, err := LoadFixture(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Seed writes every record of the fixture in one transaction. Existing
// rows with the same ids are replaced.
func (s *Store) Seed(ctx context.Context, f *Fixture) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	steps := []func() error{
		func() error { return each(f.Users, func(v domain.User) error { return writeUser(ctx, tx, v) }) },
		func() error { return each(f.Databases, func(v domain.UserDatabase) error { return writeDatabase(ctx, tx, v) }) },
		func() error { return each(f.Partners, func(v domain.Partner) error { return writePartner(ctx, tx, v) }) },
		func() error { return each(f.Activities, func(v domain.Activity) error { return writeActivity(ctx, tx, v) }) },
		func() error { return each(f.AdminLevels, func(v domain.AdminLevel) error { return writeAdminLevel(ctx, tx, v) }) },
		func() error { return each(f.AdminEntities, func(v domain.AdminEntity) error { return writeAdminEntity(ctx, tx, v) }) },
		func() error { return each(f.Locations, func(v domain.Location) error { return writeLocation(ctx, tx, v) }) },
		func() error { return each(f.Sites, func(v domain.Site) error { return writeSite(ctx, tx, v) }) },
		func() error { return each(f.Attributes, func(v domain.Attribute) error { return writeAttribute(ctx, tx, v) }) },
		func() error {
			return each(f.AttributeValues, func(v domain.AttributeValue) error { return writeAttributeValue(ctx, tx, v) })
		},
		func() error { return each(f.Indicators, func(v domain.Indicator) error { return writeIndicator(ctx, tx, v) }) },
		func() error {
			return each(f.ReportingPeriods, func(v domain.ReportingPeriod) error { return writeReportingPeriod(ctx, tx, v) })
		},
		func() error { return each(f.Permissions, func(v domain.Permission) error { return writePermission(ctx, tx, v) }) },
	}
	for _, step := range steps {
		if err = step(); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}

	slog.Info("store seeded",
		"sites", len(f.Sites),
		"indicators", len(f.Indicators),
		"reporting_periods", len(f.ReportingPeriods),
	)
	return nil
}

func each[T any](items []T, fn func(T) error) error {
	for _, item := range items {
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}
