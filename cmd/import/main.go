// Bulk content importer. Loads rows for one resource table from a YAML
// export and inserts them in a single transaction, deriving slugs the same
// way the API does. Meant for migrations and backfills; day-to-day writes go
// through the API.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/content"
	"github.com/InkwellLabs/Inkwell-Backend/internal/slugify"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	filePath = flag.String("file", "", "Path to the YAML row file (required)")
	resource = flag.String("resource", "", "Resource to import into, e.g. stories (required)")
	dsn      = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun   = flag.Bool("dry-run", false, "Parse and validate only; no DB writes")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *filePath == "" || *resource == "" {
		fatalf("--file and --resource are required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	var desc *content.Descriptor
	for i := range content.Resources {
		if content.Resources[i].Path == *resource {
			desc = &content.Resources[i]
			break
		}
	}
	if desc == nil {
		fatalf("unknown resource %q", *resource)
	}

	rows, err := loadRows(*filePath, *desc)
	if err != nil {
		fatalf("YAML error: %v", err)
	}
	fmt.Printf("Loaded %d rows for %s from %s\n", len(rows), desc.Path, *filePath)

	if *dryRun {
		fmt.Println("Dry run; no writes performed.")
		return
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("DB open error: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	inserted, err := importRows(ctx, db, *desc, rows)
	if err != nil {
		fatalf("import failed: %v", err)
	}
	fmt.Printf("Imported %d rows into %s\n", inserted, desc.Table)
}

func loadRows(path string, d content.Descriptor) ([]map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	for i, row := range rows {
		for _, req := range d.Required {
			if s, _ := row[req].(string); s == "" {
				return nil, fmt.Errorf("row %d: field %q is required", i+1, req)
			}
		}
		for key := range row {
			ok := false
			for _, w := range d.Writable {
				if w == key {
					ok = true
					break
				}
			}
			if !ok {
				return nil, fmt.Errorf("row %d: field %q is not writable on %s", i+1, key, d.Path)
			}
		}
	}
	return rows, nil
}

func importRows(ctx context.Context, db *sql.DB, d content.Descriptor, rows []map[string]any) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	inserted := 0
	for i, row := range rows {
		if err := insertRow(ctx, tx, d, row); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

func insertRow(ctx context.Context, tx *sql.Tx, d content.Descriptor, row map[string]any) error {
	title, _ := row[d.TitleField].(string)
	base := slugify.Make(title)
	if base == "" {
		return fmt.Errorf("field %q yields an empty slug", d.TitleField)
	}

	var taken bool
	if err := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1)", d.Table), base,
	).Scan(&taken); err != nil {
		return err
	}

	slug := base
	if taken {
		slug = "pending-" + uuid.NewString()
	}

	cols := []string{"slug", "created_at", "updated_at"}
	now := time.Now()
	args := []any{slug, now, now}
	for _, w := range d.Writable {
		val, ok := row[w]
		if !ok {
			continue
		}
		if items, isList := val.([]any); isList {
			strs := make([]string, 0, len(items))
			for _, item := range items {
				strs = append(strs, fmt.Sprint(item))
			}
			val = strs
		}
		cols = append(cols, w)
		args = append(args, val)
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var id int64
	if err := tx.QueryRowContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
			d.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", ")),
		args...,
	).Scan(&id); err != nil {
		return err
	}

	if taken {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET slug = $1 WHERE id = $2", d.Table),
			fmt.Sprintf("%s-%d", base, id), id)
		return err
	}
	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
