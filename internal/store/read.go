package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/VladmirB/sigmah/internal/domain"
)

// FindUser returns the user with the given id.
func (s *Store) FindUser(ctx context.Context, id int) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `SELECT id, email, name FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to read user %d: %w", id, err)
	}
	return u, nil
}

// nameQueries select (id, display name) pairs per entity kind. Kinds match
// pivot filter dimension names.
var nameQueries = map[string]string{
	"database":     `SELECT id, name FROM user_database`,
	"activity":     `SELECT id, name FROM activity`,
	"indicator":    `SELECT id, name FROM indicator`,
	"partner":      `SELECT id, name FROM partner`,
	"admin_entity": `SELECT id, name FROM admin_entity`,
	"location":     `SELECT id, name FROM location`,
	"attribute":    `SELECT id, name FROM attribute`,
	"site":         `SELECT s.id, l.name FROM site s JOIN location l ON l.id = s.location_id`,
}

// ReadNames returns the display name of every entity of a kind, keyed by id.
func (s *Store) ReadNames(ctx context.Context, kind string) (map[int]string, error) {
	query, ok := nameQueries[kind]
	if !ok {
		return nil, fmt.Errorf("no names for entity kind %q", kind)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s names: %w", kind, err)
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan %s name: %w", kind, err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s names: %w", kind, err)
	}
	return names, nil
}
