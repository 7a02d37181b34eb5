package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// ErrNotFound is returned when no widget has the requested id.
var ErrNotFound = errors.New("storage: widget not found")

const schemaSQL = `CREATE TABLE IF NOT EXISTS widgets (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	title TEXT NOT NULL,
	description TEXT,
	widget_data TEXT NOT NULL,
	react_code TEXT NOT NULL,
	embed_code TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

const upsertSQL = `INSERT INTO widgets (id, user_id, title, description, widget_data, react_code, embed_code, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	widget_data = EXCLUDED.widget_data,
	react_code = EXCLUDED.react_code,
	embed_code = EXCLUDED.embed_code,
	updated_at = EXCLUDED.updated_at`

const selectSQL = `SELECT id, user_id, title, description, widget_data, react_code, embed_code, created_at, updated_at
FROM widgets WHERE id = $1`

const listByUserSQL = `SELECT id, user_id, title, description, widget_data, react_code, embed_code, created_at, updated_at
FROM widgets WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2`

// Record is one stored widget.
type Record struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Widget      widget.Spec
	ReactCode   string
	EmbedCode   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecordFromResponse maps a service response onto a record.
func RecordFromResponse(resp genservice.Response, userID string) Record {
	return Record{
		ID:          resp.WidgetID,
		UserID:      userID,
		Title:       resp.Widget.Title,
		Description: resp.Widget.Description,
		Widget:      resp.Widget,
		ReactCode:   resp.ReactCode,
		EmbedCode:   resp.EmbedCode,
	}
}

// Response converts the record back into the service shape.
func (r Record) Response() genservice.Response {
	return genservice.Response{
		WidgetID:  r.ID,
		Widget:    r.Widget,
		ReactCode: r.ReactCode,
		EmbedCode: r.EmbedCode,
		Timestamp: genservice.Timestamp(r.UpdatedAt),
	}
}

// Store is the persistence surface used by RecordingService and the API.
type Store interface {
	Save(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, error)
}

// Repository implements Store on database/sql.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*Repository)(nil)

// NewRepository wraps an open database handle.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Migrate creates the widgets table when missing.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("storage: migrate: %w", err)
	}
	return nil
}

// Save inserts a widget or updates the existing row with the same id. The
// owner and creation time of an existing row are kept.
func (r *Repository) Save(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New("storage: widget id is required")
	}
	data, err := sonic.ConfigStd.Marshal(rec.Widget)
	if err != nil {
		return fmt.Errorf("storage: encode widget: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSQL,
		rec.ID,
		nullString(rec.UserID),
		rec.Title,
		nullString(rec.Description),
		string(data),
		rec.ReactCode,
		rec.EmbedCode,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: save widget %q: %w", rec.ID, err)
	}
	return nil
}

// Get loads a widget by id.
func (r *Repository) Get(ctx context.Context, id string) (Record, error) {
	row := r.db.QueryRowContext(ctx, selectSQL, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("storage: get widget %q: %w", id, err)
	}
	return rec, nil
}

// ListByUser returns a user's widgets, most recently updated first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listByUserSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: list widgets: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: list widgets: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: list widgets: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec         Record
		userID      sql.NullString
		description sql.NullString
		data        string
	)
	if err := s.Scan(&rec.ID, &userID, &rec.Title, &description, &data, &rec.ReactCode, &rec.EmbedCode, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return Record{}, err
	}
	spec, err := widget.Decode([]byte(data))
	if err != nil {
		return Record{}, err
	}
	rec.UserID = userID.String
	rec.Description = description.String
	rec.Widget = spec
	return rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
