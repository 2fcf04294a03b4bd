package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	// Register the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"

	"github.com/placedex/placedex/pkg/errors"
	"github.com/placedex/placedex/pkg/places"
)

// schema is applied on open. The UNIQUE(source, source_detail) constraint
// is the atomic-upsert boundary: two interleaved importers racing on the
// same identity get a constraint violation instead of a duplicate row.
const schema = `
CREATE TABLE IF NOT EXISTS places (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	source_detail  TEXT NOT NULL,
	name           TEXT NOT NULL,
	city           TEXT,
	country        TEXT,
	latitude       REAL,
	longitude      REAL,
	address        TEXT,
	website        TEXT,
	phone_number   TEXT,
	opening_hours  TEXT,
	description    TEXT,
	rating         REAL,
	rating_count   INTEGER,
	category_slug  TEXT NOT NULL DEFAULT '',
	category_en    TEXT NOT NULL DEFAULT '',
	category_zh    TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '{}',
	cover_image    TEXT NOT NULL DEFAULT '',
	images         TEXT NOT NULL DEFAULT '[]',
	custom_fields  TEXT NOT NULL DEFAULT '{}',
	source_details TEXT NOT NULL DEFAULT '{}',
	is_verified    INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL,
	UNIQUE(source, source_detail)
);
CREATE INDEX IF NOT EXISTS idx_places_category ON places(category_slug);
`

// SQLite persists places in a sqlite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a sqlite-backed store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("migrate", path, err)
	}
	return &SQLite{db: db}, nil
}

// FindByIdentity returns the place with the given identity.
func (s *SQLite) FindByIdentity(ctx context.Context, source places.Source, sourceDetail string) (*places.Place, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, source, source_detail, name, city, country, latitude, longitude,
		       address, website, phone_number, opening_hours, description,
		       rating, rating_count, category_slug, category_en, category_zh,
		       tags, cover_image, images, custom_fields, source_details,
		       is_verified, created_at, updated_at
		FROM places WHERE source = ? AND source_detail = ?`,
		string(source), sourceDetail)

	place, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("place", sourceDetail)
	}
	if err != nil {
		return nil, fmt.Errorf("find place %s/%s: %w", source, sourceDetail, errors.ErrStoreUnavailable)
	}
	return place, nil
}

// Create inserts a new place, assigning a storage id when absent.
func (s *SQLite) Create(ctx context.Context, place *places.Place) (*places.Place, error) {
	copied := *place
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}

	cols, err := marshalPlace(&copied)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO places (
			id, source, source_detail, name, city, country, latitude, longitude,
			address, website, phone_number, opening_hours, description,
			rating, rating_count, category_slug, category_en, category_zh,
			tags, cover_image, images, custom_fields, source_details,
			is_verified, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cols...)
	if err != nil {
		return nil, errors.WrapResource("create", "place", copied.SourceDetail, err)
	}
	return &copied, nil
}

// Update replaces the stored place with the given id.
func (s *SQLite) Update(ctx context.Context, id string, place *places.Place) (*places.Place, error) {
	copied := *place
	copied.ID = id

	cols, err := marshalPlace(&copied)
	if err != nil {
		return nil, err
	}

	// marshalPlace puts id first; the UPDATE binds it last.
	args := append(cols[1:], id)
	result, err := s.db.ExecContext(ctx, `
		UPDATE places SET
			source = ?, source_detail = ?, name = ?, city = ?, country = ?,
			latitude = ?, longitude = ?, address = ?, website = ?,
			phone_number = ?, opening_hours = ?, description = ?,
			rating = ?, rating_count = ?, category_slug = ?, category_en = ?,
			category_zh = ?, tags = ?, cover_image = ?, images = ?,
			custom_fields = ?, source_details = ?, is_verified = ?,
			created_at = ?, updated_at = ?
		WHERE id = ?`,
		args...)
	if err != nil {
		return nil, errors.WrapResource("update", "place", id, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return nil, errors.NewNotFoundError("place", id)
	}
	return &copied, nil
}

// Count returns the number of stored places.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM places`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count places: %w", errors.ErrStoreUnavailable)
	}
	return count, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// marshalPlace flattens a place into column values in schema order.
func marshalPlace(p *places.Place) ([]any, error) {
	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return nil, errors.WrapParse("json", "tags", err)
	}
	images, err := json.Marshal(p.Images)
	if err != nil {
		return nil, errors.WrapParse("json", "images", err)
	}
	custom, err := json.Marshal(p.CustomFields)
	if err != nil {
		return nil, errors.WrapParse("json", "custom_fields", err)
	}
	details, err := json.Marshal(p.SourceDetails)
	if err != nil {
		return nil, errors.WrapParse("json", "source_details", err)
	}

	return []any{
		p.ID, string(p.Source), p.SourceDetail, p.Name,
		p.City, p.Country, p.Latitude, p.Longitude,
		p.Address, p.Website, p.PhoneNumber, p.OpeningHours, p.Description,
		p.Rating, p.RatingCount,
		p.CategorySlug, p.CategoryEn, p.CategoryZh,
		string(tags), p.CoverImage, string(images), string(custom), string(details),
		p.IsVerified,
		p.CreatedAt.Format(time.RFC3339Nano),
		p.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

// scanPlace reads one row back into a place.
func scanPlace(row *sql.Row) (*places.Place, error) {
	var (
		p                    places.Place
		source               string
		tags, images         string
		custom, details      string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&p.ID, &source, &p.SourceDetail, &p.Name,
		&p.City, &p.Country, &p.Latitude, &p.Longitude,
		&p.Address, &p.Website, &p.PhoneNumber, &p.OpeningHours, &p.Description,
		&p.Rating, &p.RatingCount,
		&p.CategorySlug, &p.CategoryEn, &p.CategoryZh,
		&tags, &p.CoverImage, &images, &custom, &details,
		&p.IsVerified, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Source = places.Source(source)
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, errors.WrapParse("json", "tags", err)
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return nil, errors.WrapParse("json", "images", err)
	}
	if custom != "null" {
		if err := json.Unmarshal([]byte(custom), &p.CustomFields); err != nil {
			return nil, errors.WrapParse("json", "custom_fields", err)
		}
	}
	if details != "null" {
		if err := json.Unmarshal([]byte(details), &p.SourceDetails); err != nil {
			return nil, errors.WrapParse("json", "source_details", err)
		}
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		p.CreatedAt = utc.Time{Time: t}
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		p.UpdatedAt = utc.Time{Time: t}
	}
	return &p, nil
}
