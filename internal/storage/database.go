package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/yourusername/casetracker/internal/config"
	"github.com/yourusername/casetracker/internal/db"
	"github.com/yourusername/casetracker/internal/models"
)

// ErrNotFound is returned when the addressed inmate, request, comment or
// user does not exist.
var ErrNotFound = errors.New("not found")

// maxSearchResults caps a single search.
const maxSearchResults = 100

// Database provides database operations for the application
type Database struct {
	db *sqlx.DB
}

// Open connects to the configured database and applies the schema.
func Open(c config.DBConfig) (*Database, error) {
	conn, err := db.Connect(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Database{db: conn}, nil
}

// NewDatabase wraps an open connection. The schema must already exist.
func NewDatabase(conn *sqlx.DB) *Database {
	return &Database{db: conn}
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying database connection
func (d *Database) GetDB() *sqlx.DB {
	return d.db
}

func (d *Database) q(query string) string { return d.db.Rebind(query) }

/* ================================================================
   INMATES
================================================================ */

// inmateRow flattens the unit columns that models.Inmate nests.
type inmateRow struct {
	models.Inmate
	UnitName    string `db:"unit_name"`
	UnitURL     string `db:"unit_url"`
	UnitStreet1 string `db:"unit_street1"`
	UnitStreet2 string `db:"unit_street2"`
	UnitCity    string `db:"unit_city"`
	UnitState   string `db:"unit_state"`
	UnitZipcode string `db:"unit_zipcode"`
}

func (r inmateRow) toModel() models.Inmate {
	in := r.Inmate
	in.Unit = models.Unit{
		Name:    r.UnitName,
		URL:     r.UnitURL,
		Street1: r.UnitStreet1,
		Street2: r.UnitStreet2,
		City:    r.UnitCity,
		State:   r.UnitState,
		Zipcode: r.UnitZipcode,
	}
	return in
}

const inmateColumns = `jurisdiction, id, first_name, last_name, sex, race, release_info, url, datetime_fetched,
	unit_name, unit_url, unit_street1, unit_street2, unit_city, unit_state, unit_zipcode`

// UpsertInmate inserts an inmate or refreshes its profile. Child records are
// left untouched.
func (d *Database) UpsertInmate(ctx context.Context, in models.Inmate) error {
	_, err := d.db.ExecContext(ctx, d.q(`
		INSERT INTO inmates (`+inmateColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (jurisdiction, id) DO UPDATE SET
			first_name=excluded.first_name, last_name=excluded.last_name, sex=excluded.sex,
			race=excluded.race, release_info=excluded.release_info, url=excluded.url,
			datetime_fetched=excluded.datetime_fetched,
			unit_name=excluded.unit_name, unit_url=excluded.unit_url,
			unit_street1=excluded.unit_street1, unit_street2=excluded.unit_street2,
			unit_city=excluded.unit_city, unit_state=excluded.unit_state,
			unit_zipcode=excluded.unit_zipcode`),
		in.Jurisdiction, in.ID, in.FirstName, in.LastName, in.Sex, in.Race, in.Release, in.URL,
		in.DatetimeFetched.UTC(),
		in.Unit.Name, in.Unit.URL, in.Unit.Street1, in.Unit.Street2, in.Unit.City, in.Unit.State, in.Unit.Zipcode)
	if err != nil {
		return fmt.Errorf("upsert inmate %s/%d: %w", in.Jurisdiction, in.ID, err)
	}
	return nil
}

// GetInmate gets one inmate profile
func (d *Database) GetInmate(ctx context.Context, jurisdiction string, id int64) (models.Inmate, error) {
	var row inmateRow
	err := d.db.GetContext(ctx, &row, d.q(`SELECT `+inmateColumns+` FROM inmates WHERE jurisdiction=? AND id=?`),
		jurisdiction, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Inmate{}, ErrNotFound
	}
	if err != nil {
		return models.Inmate{}, fmt.Errorf("get inmate %s/%d: %w", jurisdiction, id, err)
	}
	return row.toModel(), nil
}

// GetAggregate loads an inmate together with its requests (latest postmark
// first) and comments (newest first).
func (d *Database) GetAggregate(ctx context.Context, jurisdiction string, id int64) (models.InmateAggregate, error) {
	in, err := d.GetInmate(ctx, jurisdiction, id)
	if err != nil {
		return models.InmateAggregate{}, err
	}
	reqs, err := d.ListRequests(ctx, jurisdiction, id)
	if err != nil {
		return models.InmateAggregate{}, err
	}
	comments, err := d.ListComments(ctx, jurisdiction, id)
	if err != nil {
		return models.InmateAggregate{}, err
	}
	return models.InmateAggregate{Inmate: in, Requests: reqs, Comments: comments}, nil
}

// SearchInmates matches query against inmate ids and names. A numeric query
// (dashes allowed) matches the id; otherwise one word is a last-name prefix
// and two or more words are a first-name prefix followed by a last-name
// prefix. An empty jurisdiction searches every jurisdiction. A blank query
// matches nothing.
func (d *Database) SearchInmates(ctx context.Context, jurisdiction, query string) ([]models.Inmate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Inmate{}, nil
	}

	var (
		where []string
		args  []any
	)
	if id, err := strconv.ParseInt(strings.ReplaceAll(query, "-", ""), 10, 64); err == nil {
		where = append(where, "id=?")
		args = append(args, id)
	} else {
		words := strings.Fields(strings.ToLower(query))
		if len(words) > 1 {
			where = append(where, `LOWER(first_name) LIKE ? ESCAPE '\'`)
			args = append(args, likePrefix(words[0]))
		}
		where = append(where, `LOWER(last_name) LIKE ? ESCAPE '\'`)
		args = append(args, likePrefix(words[len(words)-1]))
	}
	if jurisdiction != "" {
		where = append(where, "jurisdiction=?")
		args = append(args, jurisdiction)
	}

	var rows []inmateRow
	err := d.db.SelectContext(ctx, &rows, d.q(fmt.Sprintf(
		`SELECT %s FROM inmates WHERE %s ORDER BY last_name, first_name, jurisdiction, id LIMIT %d`,
		inmateColumns, strings.Join(where, " AND "), maxSearchResults)), args...)
	if err != nil {
		return nil, fmt.Errorf("search inmates: %w", err)
	}

	out := make([]models.Inmate, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func likePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}

/* ================================================================
   REQUESTS
================================================================ */

// ListRequests lists an inmate's requests, latest postmark first
func (d *Database) ListRequests(ctx context.Context, jurisdiction string, id int64) ([]models.Request, error) {
	reqs := []models.Request{}
	err := d.db.SelectContext(ctx, &reqs, d.q(`
		SELECT idx, date_postmarked, date_processed, disposition FROM requests
		WHERE jurisdiction=? AND inmate_id=? ORDER BY date_postmarked DESC, idx DESC`),
		jurisdiction, id)
	if err != nil {
		return nil, fmt.Errorf("list requests %s/%d: %w", jurisdiction, id, err)
	}
	return reqs, nil
}

// GetRequest gets one request by index
func (d *Database) GetRequest(ctx context.Context, jurisdiction string, id int64, index int) (models.Request, error) {
	var r models.Request
	err := d.db.GetContext(ctx, &r, d.q(`
		SELECT idx, date_postmarked, date_processed, disposition FROM requests
		WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		jurisdiction, id, index)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Request{}, ErrNotFound
	}
	if err != nil {
		return models.Request{}, fmt.Errorf("get request %s/%d/%d: %w", jurisdiction, id, index, err)
	}
	return r, nil
}

// CreateRequest appends a request, assigning the next free index.
func (d *Database) CreateRequest(ctx context.Context, jurisdiction string, id int64, r models.Request) (models.Request, error) {
	err := d.withInmateTx(ctx, jurisdiction, id, func(tx *sqlx.Tx) error {
		idx, err := d.nextIndex(ctx, tx, "requests", jurisdiction, id)
		if err != nil {
			return err
		}
		r.Index = idx
		_, err = tx.ExecContext(ctx, d.q(`
			INSERT INTO requests (jurisdiction, inmate_id, idx, date_postmarked, date_processed, disposition)
			VALUES (?,?,?,?,?,?)`),
			jurisdiction, id, r.Index, r.DatePostmarked, r.DateProcessed, r.Action)
		return err
	})
	if err != nil {
		return models.Request{}, wrap(err, "create request %s/%d", jurisdiction, id)
	}
	return r, nil
}

// UpdateRequest overwrites the postmark and action of an existing request.
// The processed date is only replaced when r carries one.
func (d *Database) UpdateRequest(ctx context.Context, jurisdiction string, id int64, index int, r models.Request) (models.Request, error) {
	res, err := d.db.ExecContext(ctx, d.q(`
		UPDATE requests SET date_postmarked=?, date_processed=COALESCE(?, date_processed), disposition=?
		WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		r.DatePostmarked, r.DateProcessed, r.Action, jurisdiction, id, index)
	if err := affectedOne(res, err); err != nil {
		return models.Request{}, wrap(err, "update request %s/%d/%d", jurisdiction, id, index)
	}
	return d.GetRequest(ctx, jurisdiction, id, index)
}

// DeleteRequest deletes a request
func (d *Database) DeleteRequest(ctx context.Context, jurisdiction string, id int64, index int) error {
	res, err := d.db.ExecContext(ctx, d.q(`
		DELETE FROM requests WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		jurisdiction, id, index)
	if err := affectedOne(res, err); err != nil {
		return wrap(err, "delete request %s/%d/%d", jurisdiction, id, index)
	}
	return nil
}

/* ================================================================
   COMMENTS
================================================================ */

// ListComments lists an inmate's comments, newest first
func (d *Database) ListComments(ctx context.Context, jurisdiction string, id int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := d.db.SelectContext(ctx, &comments, d.q(`
		SELECT idx, body, author, written_at FROM comments
		WHERE jurisdiction=? AND inmate_id=? ORDER BY written_at DESC, idx DESC`),
		jurisdiction, id)
	if err != nil {
		return nil, fmt.Errorf("list comments %s/%d: %w", jurisdiction, id, err)
	}
	return comments, nil
}

// GetComment gets one comment by index
func (d *Database) GetComment(ctx context.Context, jurisdiction string, id int64, index int) (models.Comment, error) {
	var c models.Comment
	err := d.db.GetContext(ctx, &c, d.q(`
		SELECT idx, body, author, written_at FROM comments
		WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		jurisdiction, id, index)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrNotFound
	}
	if err != nil {
		return models.Comment{}, fmt.Errorf("get comment %s/%d/%d: %w", jurisdiction, id, index, err)
	}
	return c, nil
}

// CreateComment appends a comment, assigning the next free index.
func (d *Database) CreateComment(ctx context.Context, jurisdiction string, id int64, c models.Comment) (models.Comment, error) {
	c.Datetime = c.Datetime.UTC()
	err := d.withInmateTx(ctx, jurisdiction, id, func(tx *sqlx.Tx) error {
		idx, err := d.nextIndex(ctx, tx, "comments", jurisdiction, id)
		if err != nil {
			return err
		}
		c.Index = idx
		_, err = tx.ExecContext(ctx, d.q(`
			INSERT INTO comments (jurisdiction, inmate_id, idx, body, author, written_at)
			VALUES (?,?,?,?,?,?)`),
			jurisdiction, id, c.Index, c.Body, c.Author, c.Datetime)
		return err
	})
	if err != nil {
		return models.Comment{}, wrap(err, "create comment %s/%d", jurisdiction, id)
	}
	return c, nil
}

// UpdateComment overwrites body and author; the timestamp is kept.
func (d *Database) UpdateComment(ctx context.Context, jurisdiction string, id int64, index int, c models.Comment) (models.Comment, error) {
	res, err := d.db.ExecContext(ctx, d.q(`
		UPDATE comments SET body=?, author=?
		WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		c.Body, c.Author, jurisdiction, id, index)
	if err := affectedOne(res, err); err != nil {
		return models.Comment{}, wrap(err, "update comment %s/%d/%d", jurisdiction, id, index)
	}
	return d.GetComment(ctx, jurisdiction, id, index)
}

// DeleteComment deletes a comment
func (d *Database) DeleteComment(ctx context.Context, jurisdiction string, id int64, index int) error {
	res, err := d.db.ExecContext(ctx, d.q(`
		DELETE FROM comments WHERE jurisdiction=? AND inmate_id=? AND idx=?`),
		jurisdiction, id, index)
	if err := affectedOne(res, err); err != nil {
		return wrap(err, "delete comment %s/%d/%d", jurisdiction, id, index)
	}
	return nil
}

/* ================================================================
   USERS
================================================================ */

// CreateUser creates a new staff user
func (d *Database) CreateUser(ctx context.Context, u models.User) error {
	_, err := d.db.ExecContext(ctx, d.q(`
		INSERT INTO users (id, email, password_hash, is_admin, created_at)
		VALUES (?,?,?,?,?)`),
		u.ID, u.Email, u.PasswordHash, u.IsAdmin, u.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create user %s: %w", u.Email, err)
	}
	return nil
}

// GetUserByEmail gets a user by email
func (d *Database) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := d.db.GetContext(ctx, &u, d.q(`SELECT id, email, password_hash, is_admin, created_at FROM users WHERE email=?`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user %s: %w", email, err)
	}
	return u, nil
}

// ListUsers lists all users
func (d *Database) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := d.db.SelectContext(ctx, &users, `SELECT id, email, password_hash, is_admin, created_at FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

/* ================================================================
   helpers
================================================================ */

// withInmateTx runs fn in a transaction holding the inmate row, so index
// allocation is serialised per inmate. On postgres the row is locked with
// FOR UPDATE; SQLite runs on a single connection.
func (d *Database) withInmateTx(ctx context.Context, jurisdiction string, id int64, fn func(*sqlx.Tx) error) error {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	lock := `SELECT 1 FROM inmates WHERE jurisdiction=? AND id=?`
	if d.db.DriverName() == "postgres" {
		lock += ` FOR UPDATE`
	}
	var one int
	err = tx.GetContext(ctx, &one, d.q(lock), jurisdiction, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *Database) nextIndex(ctx context.Context, tx *sqlx.Tx, table, jurisdiction string, id int64) (int, error) {
	var next int
	err := tx.GetContext(ctx, &next, d.q(`SELECT COALESCE(MAX(idx)+1, 0) FROM `+table+` WHERE jurisdiction=? AND inmate_id=?`),
		jurisdiction, id)
	return next, err
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// wrap annotates err unless it is ErrNotFound, which callers match directly.
func wrap(err error, format string, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
