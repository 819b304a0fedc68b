package storage

import (
	"database/sql"
	"loginwatch/internal/models"
	"sync"
	"time"
)

type AuditIR interface {
	Append(entry models.LoginAttempt) (int64, error)
	ReadAll() ([]models.LoginAttempt, error)
}

// AuditStorage is the append-only login attempt log. Sequence numbers are
// assigned here, under a single writer lock, so that read-max and insert
// cannot interleave between concurrent appends. Entries are committed
// before Append returns.
type AuditStorage struct {
	db *sql.DB
	mu sync.Mutex
}

func NewAuditStorage(db *sql.DB) *AuditStorage {
	return &AuditStorage{db: db}
}

const timeLayout = "2006-01-02 15:04:05"

func (a *AuditStorage) Append(entry models.LoginAttempt) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.db.Begin()
	if err != nil {
		return 0, err
	}

	var last sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(seq) FROM login_attempts`).Scan(&last); err != nil {
		tx.Rollback()
		return 0, err
	}
	seq := last.Int64 + 1

	loginTime := entry.Time
	if loginTime.IsZero() {
		loginTime = time.Now()
	}

	// Passwords never reach this table; the column is kept for layout
	// compatibility and always holds "-".
	_, err = tx.Exec(
		`INSERT INTO login_attempts(
				seq,
				username,
				password,
				ip_address,
				login_time,
				device_id,
				geo_location,
				login_result
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		seq,
		entry.Username,
		"-",
		entry.IP,
		loginTime.UTC().Format(timeLayout),
		entry.DeviceID,
		entry.Location,
		string(entry.Result),
	)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return seq, nil
}

func (a *AuditStorage) ReadAll() ([]models.LoginAttempt, error) {
	rows, err := a.db.Query(
		`SELECT seq, username, ip_address, login_time, device_id, geo_location, login_result
			FROM login_attempts
			ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := make([]models.LoginAttempt, 0)
	for rows.Next() {
		var (
			attempt   models.LoginAttempt
			ip        sql.NullString
			loginTime sql.NullString
			device    sql.NullString
			geo       sql.NullString
			result    string
		)

		if err := rows.Scan(
			&attempt.Sequence,
			&attempt.Username,
			&ip,
			&loginTime,
			&device,
			&geo,
			&result,
		); err != nil {
			return nil, err
		}

		attempt.IP = ip.String
		attempt.DeviceID = device.String
		attempt.Location = geo.String
		attempt.Result = models.AttemptResult(result)
		if loginTime.Valid {
			if t, err := time.Parse(timeLayout, loginTime.String); err == nil {
				attempt.Time = t
			}
		}

		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}
