// Package areas is the sqlite-backed catalog of broadcast area libraries,
// groups and areas used to attach shapes to cell broadcast messages.
package areas

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "notifykit/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type Config struct {
	Path        string
	BusyTimeout time.Duration
}

type Store struct {
	db  *sql.DB
	log logx.Logger
}

func Open(cfg Config, log logx.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	s := &Store{db: db, log: log}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) InsertLibrary(ctx context.Context, lib Library) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO broadcast_area_libraries (id, name, is_group) VALUES (?, ?, ?)`,
		lib.ID, lib.Name, lib.IsGroup,
	)
	return err
}

func (s *Store) InsertGroup(ctx context.Context, g Group) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO broadcast_area_library_groups (id, name, broadcast_area_library_id)
		 VALUES (?, ?, ?)`,
		g.ID, g.Name, g.LibraryID,
	)
	return err
}

// InsertArea stores one area. groupID may be empty for ungrouped areas.
func (s *Store) InsertArea(ctx context.Context, area Area, libraryID, groupID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO broadcast_areas (
		    id, name,
		    broadcast_area_library_id, broadcast_area_library_group_id,
		    feature_geojson, simple_feature_geojson
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		area.ID, area.Name, libraryID, nullStr(groupID), area.featureJSON, area.simpleFeatureJSON,
	)
	return err
}

// NewArea builds an Area from raw GeoJSON, validating that every polygon is
// a closed shape.
func NewArea(id, name, featureJSON, simpleFeatureJSON string) (Area, error) {
	return newArea(id, name, featureJSON, simpleFeatureJSON)
}

// Libraries lists all libraries sorted by id.
func (s *Store) Libraries(ctx context.Context) ([]Library, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, is_group FROM broadcast_area_libraries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Library
	for rows.Next() {
		var lib Library
		if err := rows.Scan(&lib.ID, &lib.Name, &lib.IsGroup); err != nil {
			return nil, err
		}
		out = append(out, lib)
	}
	return out, rows.Err()
}

// Areas fetches areas by id. Unknown ids are simply absent from the result.
func (s *Store) Areas(ctx context.Context, ids ...string) ([]Area, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	q := fmt.Sprintf(
		`SELECT id, name, feature_geojson, simple_feature_geojson
		 FROM broadcast_areas
		 WHERE id IN (%s)
		 ORDER BY id`,
		strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","),
	)
	return s.queryAreas(ctx, q, args...)
}

// AreasForLibrary lists a library's ungrouped areas.
func (s *Store) AreasForLibrary(ctx context.Context, libraryID string) ([]Area, error) {
	return s.queryAreas(ctx,
		`SELECT id, name, feature_geojson, simple_feature_geojson
		 FROM broadcast_areas
		 WHERE broadcast_area_library_id = ?
		 AND broadcast_area_library_group_id IS NULL
		 ORDER BY id`,
		libraryID,
	)
}

// AreasForGroup lists the areas belonging to a group.
func (s *Store) AreasForGroup(ctx context.Context, groupID string) ([]Area, error) {
	return s.queryAreas(ctx,
		`SELECT id, name, feature_geojson, simple_feature_geojson
		 FROM broadcast_areas
		 WHERE broadcast_area_library_group_id = ?
		 ORDER BY id`,
		groupID,
	)
}

// GroupsForLibrary lists a library's groups from the groups table.
func (s *Store) GroupsForLibrary(ctx context.Context, libraryID string) ([]Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, broadcast_area_library_id
		 FROM broadcast_area_library_groups
		 WHERE broadcast_area_library_id = ?
		 ORDER BY id`,
		libraryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.LibraryID); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// LibraryDescription samples up to four area names as a short example string,
// appending "N more…" when the library is larger.
func (s *Store) LibraryDescription(ctx context.Context, libraryID string) (string, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM broadcast_areas WHERE broadcast_area_library_id = ?`,
		libraryID,
	).Scan(&count)
	if err != nil {
		return "", err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM (
		    SELECT name FROM broadcast_areas
		    WHERE broadcast_area_library_id = ?
		    LIMIT 100
		 ) ORDER BY RANDOM() LIMIT 4`,
		libraryID,
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var sample []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", err
		}
		sample = append(sample, name)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	desc := strings.Join(sample, ", ")
	if count > len(sample) {
		desc = fmt.Sprintf("%s, %d more…", desc, count-len(sample))
	}
	return desc, nil
}

// LatLongPolygonsForAreas flattens the areas' polygons into the lat-long
// point order that CAP alert polygons use.
func (s *Store) LatLongPolygonsForAreas(ctx context.Context, ids ...string) ([][][2]float64, error) {
	found, err := s.Areas(ctx, ids...)
	if err != nil {
		return nil, err
	}
	var out [][][2]float64
	for _, area := range found {
		out = append(out, latLong(area.Polygons())...)
	}
	return out, nil
}

func (s *Store) queryAreas(ctx context.Context, q string, args ...any) ([]Area, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Area
	for rows.Next() {
		var id, name, feature, simple string
		if err := rows.Scan(&id, &name, &feature, &simple); err != nil {
			return nil, err
		}
		area, err := newArea(id, name, feature, simple)
		if err != nil {
			return nil, err
		}
		out = append(out, area)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
