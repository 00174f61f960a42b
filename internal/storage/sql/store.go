package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"example.com/helloapi/internal/domain"
	"example.com/helloapi/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

const schema = `
	create table if not exists hello_messages (
		id integer primary key,
		message text
	)`

const selectFirst = `
	select id, coalesce(message, '') as message
	from hello_messages
	order by id
	limit 1`

// Store keeps the greeting in a single-row table. Every call checks out its
// own connection and returns it before exiting.
type Store struct {
	db *sqlx.DB
}

func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver == "" || dsn == "" {
		return nil, errors.New("sql store: driver and dsn are required")
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer, and ":memory:" must not fan out into separate databases
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetMessage(ctx context.Context) (domain.Message, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	defer conn.Close()
	var m domain.Message
	if err := conn.GetContext(ctx, &m, selectFirst); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, storage.ErrNotFound
		}
		return domain.Message{}, err
	}
	return m, nil
}

// UpsertMessage overwrites the first row, or inserts the singleton when the
// table is empty. An insert that loses to a concurrent writer is retried as an
// update, so the last commit wins.
func (s *Store) UpsertMessage(ctx context.Context, text string) (domain.Message, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return domain.Message{}, err
	}
	defer conn.Close()
	m, err := s.upsert(ctx, conn, text)
	if isUniqueViolation(err) {
		m, err = s.upsert(ctx, conn, text)
	}
	return m, err
}

func (s *Store) upsert(ctx context.Context, conn *sqlx.Conn, text string) (domain.Message, error) {
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Message{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		update hello_messages
		set message = ?
		where id = (select min(id) from hello_messages)`),
		text,
	)
	if err != nil {
		return domain.Message{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Message{}, err
	}
	if affected == 0 {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			insert into hello_messages(id, message)
			values (?, ?)`),
			domain.MessageID,
			text,
		); err != nil {
			return domain.Message{}, err
		}
	}
	var m domain.Message
	if err := tx.GetContext(ctx, &m, selectFirst); err != nil {
		return domain.Message{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (s *Store) EnsureMessage(ctx context.Context, text string) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var n int
	if err := tx.GetContext(ctx, &n, `select count(*) from hello_messages`); err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		insert into hello_messages(id, message)
		values (?, ?)`),
		domain.MessageID,
		text,
	); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
