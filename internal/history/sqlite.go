package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/logger"
	"github.com/AlexZinkM/goldium-wallet/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists transfer history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger.Info("sqlite history opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transfer_records (
			id           TEXT PRIMARY KEY,
			kind         TEXT NOT NULL,
			from_symbol  TEXT NOT NULL,
			to_symbol    TEXT NOT NULL,
			from_amount  REAL NOT NULL,
			to_amount    REAL NOT NULL,
			destination  TEXT,
			status       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			signature    TEXT,
			error_code   TEXT,
			error        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfer_ts ON transfer_records(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Save inserts rec or updates the stored row with the same id
func (r *SQLiteRecorder) Save(rec *model.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO transfer_records
		(id, kind, from_symbol, to_symbol, from_amount, to_amount, destination,
		 status, timestamp, signature, error_code, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			to_amount = excluded.to_amount,
			signature = excluded.signature,
			error_code = excluded.error_code,
			error = excluded.error`,
		rec.ID, string(rec.Kind), rec.FromSymbol, rec.ToSymbol, rec.FromAmount, rec.ToAmount,
		rec.Destination, string(rec.Status), rec.Timestamp.UnixMilli(),
		rec.Signature, rec.ErrorCode, rec.Error,
	)
	return err
}

func (r *SQLiteRecorder) Load(limit int) ([]model.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `SELECT id, kind, from_symbol, to_symbol, from_amount, to_amount, destination,
		status, timestamp, signature, error_code, error
		FROM transfer_records ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []model.TransferRecord
	for rows.Next() {
		var (
			rec                         model.TransferRecord
			kind, status                string
			ts                          int64
			dest, sig, errCode, errText sql.NullString
		)
		if err := rows.Scan(&rec.ID, &kind, &rec.FromSymbol, &rec.ToSymbol, &rec.FromAmount, &rec.ToAmount,
			&dest, &status, &ts, &sig, &errCode, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.Kind = model.TransferKind(kind)
		rec.Status = model.TransferStatus(status)
		rec.Timestamp = time.UnixMilli(ts)
		rec.Destination = dest.String
		rec.Signature = sig.String
		rec.ErrorCode = errCode.String
		rec.Error = errText.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite history")
	return r.db.Close()
}
