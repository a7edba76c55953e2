package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/educhain/records/internal/models"
)

// PostgresDirectory implements the user directory against PostgreSQL.
type PostgresDirectory struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresDirectory creates a new PostgresDirectory with the given
// database connection.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{DB: db}
}

// FindByID looks a user up by student id, case-insensitively, loading
// the user's records. Absent users return (nil, nil).
func (d *PostgresDirectory) FindByID(ctx context.Context, studentID string) (*models.User, error) {
	return d.findOne(ctx,
		`SELECT student_id, name, wallet_address, role FROM users WHERE LOWER(student_id) = LOWER($1)`,
		studentID,
	)
}

// FindByAddress looks a user up by wallet address, loading the user's
// records. Absent users return (nil, nil).
func (d *PostgresDirectory) FindByAddress(ctx context.Context, addr models.Principal) (*models.User, error) {
	return d.findOne(ctx,
		`SELECT student_id, name, wallet_address, role FROM users WHERE wallet_address = $1`,
		addr.String(),
	)
}

// AddRecord stores a record for the user owning addr. Records for
// unknown addresses are dropped silently, matching the in-memory
// directory's behavior.
func (d *PostgresDirectory) AddRecord(ctx context.Context, addr models.Principal, record models.AcademicRecord) error {
	_, err := d.DB.ExecContext(ctx,
		`INSERT INTO records (id, student_id, course, grade, year, institution, verified, transaction_id)
		 SELECT $1, student_id, $2, $3, $4, $5, $6, $7 FROM users WHERE wallet_address = $8
		 ON CONFLICT DO NOTHING`,
		record.ID, record.Course, record.Grade, record.Year, record.Institution,
		record.Verified, record.TransactionID, addr.String(),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// findOne runs a single-user query and attaches the user's records.
func (d *PostgresDirectory) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var user models.User
	var addr string
	err := d.DB.QueryRowContext(ctx, query, arg).
		Scan(&user.StudentID, &user.Name, &addr, &user.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	user.WalletAddress = models.Principal(addr)

	records, err := d.loadRecords(ctx, user.StudentID)
	if err != nil {
		return nil, err
	}
	user.Records = records
	return &user, nil
}

// loadRecords fetches the records owned by the given student.
func (d *PostgresDirectory) loadRecords(ctx context.Context, studentID string) ([]models.AcademicRecord, error) {
	rows, err := d.DB.QueryContext(ctx,
		`SELECT id, course, grade, year, institution, verified, transaction_id
		   FROM records WHERE student_id = $1 ORDER BY year, id`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []models.AcademicRecord
	for rows.Next() {
		var r models.AcademicRecord
		if err := rows.Scan(&r.ID, &r.Course, &r.Grade, &r.Year, &r.Institution, &r.Verified, &r.TransactionID); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}
