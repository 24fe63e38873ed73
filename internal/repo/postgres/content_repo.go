package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrContentNotFound = errors.New("content item not found")
	ErrStaleStatus     = errors.New("content item is no longer pending")
)

type ContentRepo struct {
	pool *pgxpool.Pool
}

type ContentItemRecord struct {
	ID            string
	Caption       string
	ContentType   string
	MediaURL      *string
	MediaKind     *string
	Status        string
	ScheduleDate  time.Time
	AssignedTo    int64
	AssigneeEmail string
	AssigneeName  string
	CreatedBy     int64
	CreatedAt     time.Time
	DecidedAt     *time.Time
}

type CreateContentParams struct {
	Caption      string
	ContentType  string
	MediaURL     *string
	MediaKind    *string
	ScheduleDate time.Time
	AssignedTo   int64
	CreatedBy    int64
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

const contentColumns = `
ci.id, ci.caption, ci.content_type, ci.media_url, ci.media_kind, ci.status,
ci.schedule_date, ci.assigned_to, p.email, COALESCE(p.full_name, ''),
ci.created_by, ci.created_at, ci.decided_at`

// Create inserts a new item with a server-assigned id and status forced
// to Pending regardless of caller input.
func (r *ContentRepo) Create(ctx context.Context, params CreateContentParams) (ContentItemRecord, error) {
	if r.pool == nil {
		return ContentItemRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(params.Caption) == "" || params.AssignedTo <= 0 || params.CreatedBy <= 0 {
		return ContentItemRecord{}, fmt.Errorf("invalid content payload")
	}

	id := uuid.NewString()
	if _, err := r.pool.Exec(ctx, `
INSERT INTO content_items (
	id,
	caption,
	content_type,
	media_url,
	media_kind,
	status,
	schedule_date,
	assigned_to,
	created_by,
	created_at
) VALUES ($1, $2, $3, $4, $5, 'Pending', $6, $7, $8, NOW())
`, id, params.Caption, params.ContentType, params.MediaURL, params.MediaKind,
		params.ScheduleDate, params.AssignedTo, params.CreatedBy); err != nil {
		return ContentItemRecord{}, fmt.Errorf("insert content item: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *ContentRepo) GetByID(ctx context.Context, id string) (ContentItemRecord, error) {
	if r.pool == nil {
		return ContentItemRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" {
		return ContentItemRecord{}, fmt.Errorf("invalid content item id")
	}

	return r.queryOne(ctx, `
SELECT `+contentColumns+`
FROM content_items ci
JOIN profiles p ON p.id = ci.assigned_to
WHERE ci.id = $1
LIMIT 1
`, id)
}

// ListAll returns every item newest-first, with the assignee profile
// expanded.
func (r *ContentRepo) ListAll(ctx context.Context) ([]ContentItemRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	return r.queryMany(ctx, `
SELECT `+contentColumns+`
FROM content_items ci
JOIN profiles p ON p.id = ci.assigned_to
ORDER BY ci.created_at DESC, ci.id DESC
`)
}

// ListAssignedTo returns only the items owned by one reviewing client,
// newest-first.
func (r *ContentRepo) ListAssignedTo(ctx context.Context, profileID int64) ([]ContentItemRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if profileID <= 0 {
		return nil, fmt.Errorf("invalid profile id")
	}

	return r.queryMany(ctx, `
SELECT `+contentColumns+`
FROM content_items ci
JOIN profiles p ON p.id = ci.assigned_to
WHERE ci.assigned_to = $1
ORDER BY ci.created_at DESC, ci.id DESC
`, profileID)
}

// UpdateStatusIfPending performs the conditional transition: the row is
// touched only while its status still reads Pending, so a stale reviewer
// loses instead of overwriting the first decision.
func (r *ContentRepo) UpdateStatusIfPending(ctx context.Context, id, status string) (ContentItemRecord, error) {
	if r.pool == nil {
		return ContentItemRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(status) == "" {
		return ContentItemRecord{}, fmt.Errorf("invalid status payload")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE content_items
SET status = $2, decided_at = NOW()
WHERE id = $1 AND status = 'Pending'
`, id, status)
	if err != nil {
		return ContentItemRecord{}, fmt.Errorf("update content status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return ContentItemRecord{}, getErr
		}
		return ContentItemRecord{}, ErrStaleStatus
	}

	return r.GetByID(ctx, id)
}

// DistinctAssigneeEmails lists the known client emails for the admin
// filter dropdown, excluding the admin identity itself.
func (r *ContentRepo) DistinctAssigneeEmails(ctx context.Context, excludeEmail string) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT p.email
FROM content_items ci
JOIN profiles p ON p.id = ci.assigned_to
WHERE LOWER(p.email) <> LOWER($1)
ORDER BY p.email ASC
`, strings.TrimSpace(excludeEmail))
	if err != nil {
		return nil, fmt.Errorf("list assignee emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan assignee email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignee emails: %w", err)
	}

	return emails, nil
}

// MediaURLReferenced reports whether any item points at the given media
// URL. Used by the cleanup job to spare live objects.
func (r *ContentRepo) MediaURLReferenced(ctx context.Context, mediaURL string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(mediaURL) == "" {
		return false, nil
	}

	var referenced bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM content_items WHERE media_url = $1)
`, mediaURL).Scan(&referenced); err != nil {
		return false, fmt.Errorf("check media url reference: %w", err)
	}

	return referenced, nil
}

func (r *ContentRepo) queryOne(ctx context.Context, query string, args ...interface{}) (ContentItemRecord, error) {
	var item ContentItemRecord
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.Caption,
		&item.ContentType,
		&item.MediaURL,
		&item.MediaKind,
		&item.Status,
		&item.ScheduleDate,
		&item.AssignedTo,
		&item.AssigneeEmail,
		&item.AssigneeName,
		&item.CreatedBy,
		&item.CreatedAt,
		&item.DecidedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ContentItemRecord{}, ErrContentNotFound
		}
		return ContentItemRecord{}, fmt.Errorf("query content item: %w", err)
	}
	return item, nil
}

func (r *ContentRepo) queryMany(ctx context.Context, query string, args ...interface{}) ([]ContentItemRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content items: %w", err)
	}
	defer rows.Close()

	var items []ContentItemRecord
	for rows.Next() {
		var item ContentItemRecord
		if err := rows.Scan(
			&item.ID,
			&item.Caption,
			&item.ContentType,
			&item.MediaURL,
			&item.MediaKind,
			&item.Status,
			&item.ScheduleDate,
			&item.AssignedTo,
			&item.AssigneeEmail,
			&item.AssigneeName,
			&item.CreatedBy,
			&item.CreatedAt,
			&item.DecidedAt,
		); err != nil {
			return nil, fmt.Errorf("scan content item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content items: %w", err)
	}

	return items, nil
}
