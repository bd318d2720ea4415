package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mintforge/internal/metadata"
)

// timeLayout has fixed-width fractions so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const recordColumns = "id, collection_id, name, description, image, attributes_json, transaction_id, owner_address, metadata_uri, batch_id, row_index, created_at"

// CreateRecord persists a minted token and returns the stored record.
func (s *Store) CreateRecord(ctx context.Context, rec NewRecord) (Record, error) {
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	attrs := rec.Attributes
	if attrs == nil {
		attrs = []metadata.Attribute{}
	}
	attrsJSON, err := json.Marshal(attrs)
	if err != nil {
		return Record{}, fmt.Errorf("marshal attributes: %w", err)
	}

	stored := Record{
		ID:            uuid.NewString(),
		CollectionID:  rec.CollectionID,
		Name:          rec.Name,
		Description:   rec.Description,
		Image:         rec.Image,
		Attributes:    attrs,
		TransactionID: rec.TransactionID,
		OwnerAddress:  rec.OwnerAddress,
		MetadataURI:   rec.MetadataURI,
		BatchID:       rec.BatchID,
		RowIndex:      rec.RowIndex,
		CreatedAt:     time.Now().UTC(),
	}

	err = s.execWithRetry(ctx,
		`INSERT INTO minted_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.CollectionID,
		stored.Name,
		nullableString(stored.Description),
		stored.Image,
		string(attrsJSON),
		stored.TransactionID,
		nullableString(stored.OwnerAddress),
		nullableString(stored.MetadataURI),
		nullableString(stored.BatchID),
		nullableInt(stored.RowIndex),
		stored.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	return stored, nil
}

// GetByID fetches a record, returning nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM minted_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns records matching filter, oldest first.
func (s *Store) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `SELECT ` + recordColumns + ` FROM minted_records WHERE 1=1`
	var args []any
	if filter.CollectionID != "" {
		query += ` AND collection_id = ?`
		args = append(args, filter.CollectionID)
	}
	if filter.BatchID != "" {
		query += ` AND batch_id = ?`
		args = append(args, filter.BatchID)
	}
	query += ` ORDER BY created_at, row_index`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec          Record
		description  sql.NullString
		attrsJSON    string
		ownerAddress sql.NullString
		metadataURI  sql.NullString
		batchID      sql.NullString
		rowIndex     sql.NullInt64
		createdRaw   string
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.CollectionID,
		&rec.Name,
		&description,
		&rec.Image,
		&attrsJSON,
		&rec.TransactionID,
		&ownerAddress,
		&metadataURI,
		&batchID,
		&rowIndex,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	rec.Description = description.String
	rec.OwnerAddress = ownerAddress.String
	rec.MetadataURI = metadataURI.String
	rec.BatchID = batchID.String
	rec.RowIndex = int(rowIndex.Int64)
	if err := json.Unmarshal([]byte(attrsJSON), &rec.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes for %s: %w", rec.ID, err)
	}
	if created, err := time.Parse(timeLayout, createdRaw); err == nil {
		rec.CreatedAt = created
	}
	return &rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}
