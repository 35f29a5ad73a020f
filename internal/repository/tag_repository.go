package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cfp-engine/internal/models"

	"github.com/lib/pq"
)

// TagRepository handles database operations for tags
type TagRepository struct {
	db DBTX
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *TagRepository) WithTx(tx *sql.Tx) *TagRepository {
	return &TagRepository{db: tx}
}

// Create inserts a tag. A case-insensitive duplicate surfaces as a unique violation.
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (name, is_suggested) VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query, tag.Name, tag.IsSuggested).Scan(&tag.ID, &tag.CreatedAt)
}

// EnsureByNames creates any missing non-suggested tags and returns all tags matching names
func (r *TagRepository) EnsureByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	if len(names) == 0 {
		return []models.Tag{}, nil
	}

	insert := `
		INSERT INTO tags (name, is_suggested)
		SELECT n, FALSE FROM UNNEST($1::text[]) AS n
		ON CONFLICT ((LOWER(name))) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to insert tags: %w", err)
	}

	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}

	query := `
		SELECT id, name, is_suggested, created_at FROM tags
		WHERE LOWER(name) = ANY($1)
		ORDER BY name
	`
	return r.queryTags(ctx, query, pq.Array(lowered))
}

// GetByIDs returns the tags with the given ids
func (r *TagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}
	query := `SELECT id, name, is_suggested, created_at FROM tags WHERE id = ANY($1) ORDER BY name`
	return r.queryTags(ctx, query, pq.Array(toInt64s(ids)))
}

// Delete removes a tag; submission links are cascaded
func (r *TagRepository) Delete(ctx context.Context, id uint) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Search finds tags by case-insensitive prefix, suggested tags first
func (r *TagRepository) Search(ctx context.Context, prefix string, suggestedOnly bool, limit int) ([]models.Tag, error) {
	query := `
		SELECT id, name, is_suggested, created_at FROM tags
		WHERE LOWER(name) LIKE $1::text || '%'
		  AND ($2::boolean = FALSE OR is_suggested)
		ORDER BY is_suggested DESC, name
		LIMIT $3
	`
	return r.queryTags(ctx, query, escapeLike(strings.ToLower(prefix)), suggestedOnly, limit)
}

func (r *TagRepository) queryTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.IsSuggested, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func toInt64s(ids []uint) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
