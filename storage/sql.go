package storage

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"campuslands/models"
)

// SQLStore keeps one row per camper: the id, the status and the version as
// columns and the whole record as a JSON document. The statements only use
// `?` placeholders so the same store runs on sqlite and mysql.
type SQLStore struct {
	db *sql.DB
	// serializes id assignment within the process; the primary key guards
	// against other writers.
	insertMu sync.Mutex
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) List(ctx context.Context) ([]models.Camper, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT doc, version FROM campers ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "select campers")
	}
	defer rows.Close()

	campers := []models.Camper{}
	for rows.Next() {
		c, err := scanCamper(rows)
		if err != nil {
			return nil, err
		}
		campers = append(campers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate campers")
	}
	return campers, nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM campers").Scan(&total); err != nil {
		return 0, errors.Wrap(err, "count campers")
	}
	return total, nil
}

func (s *SQLStore) Get(ctx context.Context, id int) (*models.Camper, error) {
	row := s.db.QueryRowContext(ctx, "SELECT doc, version FROM campers WHERE id = ?", id)
	return scanCamper(row)
}

func (s *SQLStore) GetPending(ctx context.Context, id int) (*models.Camper, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT doc, version FROM campers WHERE id = ? AND estado = ?", id, string(models.StatusPending))
	return scanCamper(row)
}

func (s *SQLStore) Insert(ctx context.Context, c *models.Camper) error {
	s.insertMu.Lock()
	defer s.insertMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin insert")
	}
	defer tx.Rollback() //nolint:errcheck

	var lastID int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM campers").Scan(&lastID); err != nil {
		return errors.Wrap(err, "select last camper id")
	}

	next := c.Clone()
	next.ID = lastID + 1
	next.Version = 1
	doc, err := json.Marshal(next)
	if err != nil {
		return errors.Wrap(err, "encode camper")
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO campers (id, estado, version, doc) VALUES (?, ?, ?, ?)",
		next.ID, string(next.Status), next.Version, string(doc))
	if err != nil {
		return errors.Wrapf(err, "insert camper %d", next.ID)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit insert")
	}

	c.ID = next.ID
	c.Version = next.Version
	return nil
}

func (s *SQLStore) Replace(ctx context.Context, c *models.Camper) error {
	doc, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode camper")
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE campers SET estado = ?, version = ?, doc = ? WHERE id = ? AND version = ?",
		string(c.Status), c.Version+1, string(doc), c.ID, c.Version)
	if err != nil {
		return errors.Wrapf(err, "replace camper %d", c.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		if _, err := s.Get(ctx, c.ID); err != nil {
			return err
		}
		return ErrConflict
	}

	c.Version++
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCamper(row scanner) (*models.Camper, error) {
	var (
		doc     string
		version int
	)
	if err := row.Scan(&doc, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "scan camper")
	}

	var c models.Camper
	if err := json.Unmarshal([]byte(doc), &c); err != nil {
		return nil, errors.Wrap(err, "decode camper")
	}
	c.Version = version
	return &c, nil
}
