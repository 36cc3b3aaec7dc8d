package repositories

import (
	"context"
	"database/sql"
	"time"

	"spfs/database"
	"spfs/domain/contracts"
	"spfs/domain/journal"
)

const operationColumns = `id, op, path, target, status, error, bytes, duration_ms, created_at`

// SqliteOperationRepository implements contracts.OperationRepository with read/write separation.
type SqliteOperationRepository struct {
	*BaseRepository
}

// NewSqliteOperationRepository creates a new operation journal repository.
func NewSqliteOperationRepository(database *database.Database) contracts.OperationRepository {
	return &SqliteOperationRepository{
		BaseRepository: NewBaseRepository(database),
	}
}

// Record inserts op and returns its row ID.
func (r *SqliteOperationRepository) Record(ctx context.Context, op journal.Operation) (int64, error) {
	createdAt := op.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := r.WriteDB().ExecContext(ctx,
		`INSERT INTO operations (op, path, target, status, error, bytes, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(op.Kind),
		op.Path,
		r.ToNullString(op.Target),
		string(op.Status),
		r.ToNullString(op.Error),
		r.ToNullInt64FromPointer(op.Bytes),
		op.DurationMs(),
		createdAt.UTC(),
	)
	if err != nil {
		return 0, ErrQuery{Op: "record", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, ErrQuery{Op: "record", Err: err}
	}
	return id, nil
}

// Recent returns the newest operations first.
func (r *SqliteOperationRepository) Recent(ctx context.Context, limit int) ([]journal.Operation, error) {
	if limit <= 0 {
		return nil, contracts.ErrInvalidLimit
	}

	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT `+operationColumns+` FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, ErrQuery{Op: "recent", Err: err}
	}
	return r.scanOperations("recent", rows)
}

// ForPath returns operations whose source or target is path, newest first.
func (r *SqliteOperationRepository) ForPath(ctx context.Context, path string, limit int) ([]journal.Operation, error) {
	if limit <= 0 {
		return nil, contracts.ErrInvalidLimit
	}

	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT `+operationColumns+` FROM operations
		 WHERE path = ? OR target = ?
		 ORDER BY id DESC LIMIT ?`, path, path, limit)
	if err != nil {
		return nil, ErrQuery{Op: "for_path", Err: err}
	}
	return r.scanOperations("for_path", rows)
}

// Prune deletes operations created before cutoff.
func (r *SqliteOperationRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM operations WHERE created_at < ?`, cutoff.UTC())
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, ErrQuery{Op: "prune", Err: err}
	}
	return removed, nil
}

func (r *SqliteOperationRepository) scanOperations(op string, rows *sql.Rows) ([]journal.Operation, error) {
	defer rows.Close()

	ops := make([]journal.Operation, 0)
	for rows.Next() {
		var (
			row        journal.Operation
			kind       string
			status     string
			target     sql.NullString
			errText    sql.NullString
			bytes      sql.NullInt64
			durationMs int64
			createdAt  sql.NullTime
		)
		if err := rows.Scan(&row.ID, &kind, &row.Path, &target, &status, &errText, &bytes, &durationMs, &createdAt); err != nil {
			return nil, ErrQuery{Op: op, Err: err}
		}

		row.Kind = journal.Kind(kind)
		row.Status = journal.Status(status)
		row.Target = r.FromNullString(target)
		row.Error = r.FromNullString(errText)
		row.Bytes = r.FromNullInt64ToPointer(bytes)
		row.Duration = time.Duration(durationMs) * time.Millisecond
		row.CreatedAt = r.FromNullTime(createdAt)
		ops = append(ops, row)
	}
	if err := rows.Err(); err != nil {
		return nil, ErrQuery{Op: op, Err: err}
	}
	return ops, nil
}
