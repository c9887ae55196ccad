package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"real-estate-dashboard/internal/models"
)

type PostgresDB struct {
	db *sql.DB
}

func NewPostgresDB(host, port, user, password, dbname string) (*PostgresDB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PostgresDB{db: db}, nil
}

func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}

func (pdb *PostgresDB) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_records (
		id SERIAL PRIMARY KEY,
		search_id VARCHAR(64) UNIQUE NOT NULL,
		kind VARCHAR(16) NOT NULL,
		description TEXT,
		file VARCHAR(255) NOT NULL,
		property_id VARCHAR(32),
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		expire_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_search_records_file ON search_records(file);
	CREATE INDEX IF NOT EXISTS idx_search_records_expire_at ON search_records(expire_at);

	CREATE TABLE IF NOT EXISTS delete_logs (
		id SERIAL PRIMARY KEY,
		search_id VARCHAR(64) NOT NULL,
		kind VARCHAR(16) NOT NULL,
		file VARCHAR(255) NOT NULL,
		expired_at TIMESTAMP,
		deleted_at TIMESTAMP NOT NULL DEFAULT NOW(),
		reason VARCHAR(32) NOT NULL
	);
	`
	_, err := pdb.db.Exec(schema)
	return err
}

func (pdb *PostgresDB) SaveListingSearch(rec *models.SearchRecord) error {
	rec.Kind = models.SearchKindListings
	stampTTL(rec)

	query := `
		INSERT INTO search_records (search_id, kind, description, file, property_id, result_count, created_at, expire_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	return pdb.db.QueryRow(query,
		rec.SearchID, rec.Kind, rec.Description, rec.File,
		rec.PropertyID, rec.ResultCount, rec.CreatedAt, rec.ExpireAt,
	).Scan(&rec.ID)
}

func (pdb *PostgresDB) SavePropertySearch(rec *models.SearchRecord) error {
	rec.Kind = models.SearchKindProperty
	stampTTL(rec)

	var existingID uint
	var existingSearchID string
	var existingCreatedAt time.Time
	err := pdb.db.QueryRow(
		`SELECT id, search_id, created_at FROM search_records WHERE file = $1`,
		rec.File,
	).Scan(&existingID, &existingSearchID, &existingCreatedAt)

	if err == sql.ErrNoRows {
		query := `
			INSERT INTO search_records (search_id, kind, description, file, property_id, result_count, created_at, expire_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`
		return pdb.db.QueryRow(query,
			rec.SearchID, rec.Kind, rec.Description, rec.File,
			rec.PropertyID, rec.ResultCount, rec.CreatedAt, rec.ExpireAt,
		).Scan(&rec.ID)
	} else if err != nil {
		return err
	}

	rec.ID = existingID
	rec.SearchID = existingSearchID
	rec.CreatedAt = existingCreatedAt
	_, err = pdb.db.Exec(
		`UPDATE search_records SET description = $1, property_id = $2, result_count = $3, expire_at = $4 WHERE id = $5`,
		rec.Description, rec.PropertyID, rec.ResultCount, rec.ExpireAt, rec.ID,
	)
	return err
}

func (pdb *PostgresDB) ListRecords(kind models.SearchKind, limit int) ([]models.SearchRecord, error) {
	query := `
		SELECT id, search_id, kind, description, file, property_id, result_count, created_at, expire_at
		FROM search_records`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := pdb.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (pdb *PostgresDB) FindByFile(file string) (*models.SearchRecord, error) {
	var rec models.SearchRecord
	err := pdb.db.QueryRow(
		`SELECT id, search_id, kind, description, file, property_id, result_count, created_at, expire_at
		 FROM search_records WHERE file = $1`,
		file,
	).Scan(&rec.ID, &rec.SearchID, &rec.Kind, &rec.Description, &rec.File,
		&rec.PropertyID, &rec.ResultCount, &rec.CreatedAt, &rec.ExpireAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (pdb *PostgresDB) FindExpired(now time.Time) ([]models.SearchRecord, error) {
	rows, err := pdb.db.Query(
		`SELECT id, search_id, kind, description, file, property_id, result_count, created_at, expire_at
		 FROM search_records WHERE expire_at < $1 ORDER BY expire_at ASC`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (pdb *PostgresDB) DeleteRecord(id uint) error {
	_, err := pdb.db.Exec(`DELETE FROM search_records WHERE id = $1`, id)
	return err
}

func (pdb *PostgresDB) LogDeletion(entry *models.DeleteLog) error {
	if entry.DeletedAt.IsZero() {
		entry.DeletedAt = time.Now()
	}
	return pdb.db.QueryRow(
		`INSERT INTO delete_logs (search_id, kind, file, expired_at, deleted_at, reason)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		entry.SearchID, entry.Kind, entry.File, entry.ExpiredAt, entry.DeletedAt, entry.Reason,
	).Scan(&entry.ID)
}

func scanRecords(rows *sql.Rows) ([]models.SearchRecord, error) {
	var records []models.SearchRecord
	for rows.Next() {
		var rec models.SearchRecord
		if err := rows.Scan(&rec.ID, &rec.SearchID, &rec.Kind, &rec.Description, &rec.File,
			&rec.PropertyID, &rec.ResultCount, &rec.CreatedAt, &rec.ExpireAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
