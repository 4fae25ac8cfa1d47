package db

import "time"

// RecordFile inserts or refreshes the history row for path
func (db *DB) RecordFile(path, filename string, action FileAction, at time.Time) error {
	_, err := db.Exec(`
		INSERT INTO recent_files (path, filename, action, accessed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			filename = excluded.filename,
			action = excluded.action,
			accessed_at = excluded.accessed_at`,
		path, filename, string(action), at.UnixMilli(),
	)
	return err
}

// GetRecentFile retrieves the history row for path
func (db *DB) GetRecentFile(path string) (*RecentFile, error) {
	row := db.QueryRow(`
		SELECT path, filename, action, accessed_at
		FROM recent_files WHERE path = ?`, path)
	return scanRecentFile(row)
}

// ListRecentFiles returns the most recently touched files first
func (db *DB) ListRecentFiles(limit int) ([]*RecentFile, error) {
	rows, err := db.Query(`
		SELECT path, filename, action, accessed_at
		FROM recent_files ORDER BY accessed_at DESC, path ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []*RecentFile{}
	for rows.Next() {
		f, err := scanRecentFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// CountRecentFiles returns the number of history rows
func (db *DB) CountRecentFiles() (int, error) {
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM recent_files").Scan(&n)
	return n, err
}

// PruneRecentFiles deletes rows last touched before cutoff
func (db *DB) PruneRecentFiles(cutoff time.Time) (int64, error) {
	result, err := db.Exec("DELETE FROM recent_files WHERE accessed_at < ?", cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecentFile(row rowScanner) (*RecentFile, error) {
	var f RecentFile
	var action string
	var accessedAt int64

	if err := row.Scan(&f.Path, &f.Filename, &action, &accessedAt); err != nil {
		return nil, err
	}

	f.Action = FileAction(action)
	f.AccessedAt = time.UnixMilli(accessedAt)
	return &f, nil
}
