package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/db"
	"github.com/InkwellLabs/Inkwell-Backend/internal/envelope"
	"github.com/InkwellLabs/Inkwell-Backend/internal/slugify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ListParams are the resolved query parameters for a list call.
type ListParams struct {
	Filters  map[string]any
	Page     int
	PageSize int
}

// listRows pages through a table with equality filters. Ordering is id DESC:
// deterministic, so pagination never skips or repeats rows.
func listRows(ctx context.Context, d Descriptor, p ListParams) ([]envelope.Row, int64, error) {
	q := db.DB.WithContext(ctx).Table(d.Table)
	for col, val := range p.Filters {
		q = q.Where(fmt.Sprintf("%s = ?", col), val)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []map[string]any
	err := q.Order("id DESC").
		Limit(p.PageSize).
		Offset((p.Page - 1) * p.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]envelope.Row, len(rows))
	for i, r := range rows {
		out[i] = envelope.Row(r)
	}
	return out, total, nil
}

func getRowBy(ctx context.Context, d Descriptor, col string, val any) (envelope.Row, error) {
	var row map[string]any
	err := db.DB.WithContext(ctx).Table(d.Table).
		Where(fmt.Sprintf("%s = ?", col), val).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.ErrNotFound
		}
		return nil, err
	}
	return row, nil
}

// createRow inserts a new record with a slug derived from its title field.
// On a base-slug collision the row's own id is appended; a collision that
// survives one re-suffix attempt surfaces as a conflict.
func createRow(ctx context.Context, d Descriptor, attrs map[string]any) (envelope.Row, error) {
	title, _ := attrs[d.TitleField].(string)
	base := slugify.Make(title)
	if base == "" {
		return nil, apierr.ErrValidationFailed.WithMessage(
			fmt.Sprintf("Field %q must contain at least one letter or digit", d.TitleField))
	}

	row, err := insertWithSlug(ctx, d, attrs, base, false)
	if isUniqueViolation(err) {
		// Lost a race for the base slug; retry once with the id suffix.
		row, err = insertWithSlug(ctx, d, attrs, base, true)
	}
	if isUniqueViolation(err) {
		return nil, apierr.ErrConflict
	}
	return row, err
}

// insertWithSlug runs one insert attempt in a transaction. With forceSuffix
// the record first lands under a provisional slug and is renamed to
// base-<id> once its id is known.
func insertWithSlug(ctx context.Context, d Descriptor, attrs map[string]any, base string, forceSuffix bool) (envelope.Row, error) {
	now := time.Now()
	record := make(map[string]any, len(attrs)+3)
	for k, v := range attrs {
		record[k] = v
	}
	record["created_at"] = now
	record["updated_at"] = now

	var created envelope.Row
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		useBase := !forceSuffix
		if useBase {
			var n int64
			if err := tx.Table(d.Table).Where("slug = ?", base).Count(&n).Error; err != nil {
				return err
			}
			useBase = n == 0
		}

		if useBase {
			record["slug"] = base
			if err := tx.Table(d.Table).Create(&record).Error; err != nil {
				return err
			}
			return scanBySlug(tx, d, base, &created)
		}

		// Slug taken: insert under a throwaway unique slug, then rename to
		// base-<id> now that the id exists.
		provisional := "pending-" + uuid.NewString()
		record["slug"] = provisional
		if err := tx.Table(d.Table).Create(&record).Error; err != nil {
			return err
		}
		if err := scanBySlug(tx, d, provisional, &created); err != nil {
			return err
		}

		final := fmt.Sprintf("%s-%v", base, created["id"])
		if err := tx.Table(d.Table).Where("slug = ?", provisional).
			Update("slug", final).Error; err != nil {
			return err
		}
		created["slug"] = final
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func scanBySlug(tx *gorm.DB, d Descriptor, slug string, out *envelope.Row) error {
	var row map[string]any
	if err := tx.Table(d.Table).Where("slug = ?", slug).Take(&row).Error; err != nil {
		return err
	}
	*out = row
	return nil
}

// updateRow applies a partial update: only recognized writable fields change,
// updated_at is touched, and the row is re-fetched before it is returned.
func updateRow(ctx context.Context, d Descriptor, id uint64, attrs map[string]any) (envelope.Row, error) {
	if len(attrs) == 0 {
		return nil, apierr.ErrNoValidFields
	}
	attrs["updated_at"] = time.Now()

	res := db.DB.WithContext(ctx).Table(d.Table).Where("id = ?", id).Updates(attrs)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, apierr.ErrConflict
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apierr.ErrNotFound
	}

	return getRowBy(ctx, d, "id", id)
}

func deleteRow(ctx context.Context, d Descriptor, id uint64) error {
	res := db.DB.WithContext(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", d.Table), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierr.ErrNotFound
	}
	return nil
}

// sanitizeAttrs keeps only writable fields and converts JSON arrays into
// driver-compatible values. With requireAll, required fields must be present
// and non-empty.
func sanitizeAttrs(d Descriptor, input map[string]any, requireAll bool) (map[string]any, error) {
	attrs := make(map[string]any, len(input))
	for k, v := range input {
		if !d.writable(k) {
			continue
		}
		if d.isArray(k) {
			arr, err := toStringArray(v)
			if err != nil {
				return nil, apierr.ErrValidationFailed.WithMessage(
					fmt.Sprintf("Field %q must be an array of strings", k))
			}
			v = arr
		}
		attrs[k] = v
	}

	if requireAll {
		for _, req := range d.Required {
			s, _ := attrs[req].(string)
			if s == "" {
				return nil, apierr.ErrValidationFailed.WithMessage(
					fmt.Sprintf("Field %q is required", req))
			}
		}
	}
	return attrs, nil
}

func toStringArray(v any) (pq.StringArray, error) {
	switch vals := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return pq.StringArray(vals), nil
	case []any:
		out := make(pq.StringArray, 0, len(vals))
		for _, item := range vals {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string array element")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not an array")
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
