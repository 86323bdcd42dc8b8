package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `id, package_id, doc_type, version, filename, storage_key, content_type, created_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.PackageID, &d.DocType, &d.Version, &d.Filename,
		&d.StorageKey, &d.ContentType, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocumentsByPackage retrieves a package's documents in creation order
func (db *DB) ListDocumentsByPackage(ctx context.Context, packageID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE package_id = $1 ORDER BY created_at ASC`,
		packageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, nil
}

// GetLatestBundle finds the bundle document for a package, preferring the
// one matching the current version counter and falling back to the highest
// bundle version recorded
func (db *DB) GetLatestBundle(ctx context.Context, packageID uuid.UUID) (*Document, error) {
	pkg, err := db.GetPackageByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, &ErrNotFound{Entity: "package", ID: packageID.String()}
	}

	if pkg.VersionCounter > 0 {
		doc, err := scanDocument(db.pool.QueryRow(ctx,
			`SELECT `+documentColumns+` FROM documents
			 WHERE package_id = $1 AND doc_type = 'bundle' AND version = $2`,
			packageID, pkg.VersionCounter,
		))
		if err == nil {
			return doc, nil
		}
		if err != pgx.ErrNoRows {
			return nil, fmt.Errorf("failed to get bundle: %w", err)
		}
	}

	doc, err := scanDocument(db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents
		 WHERE package_id = $1 AND doc_type = 'bundle'
		 ORDER BY version DESC LIMIT 1`,
		packageID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	return doc, nil
}
