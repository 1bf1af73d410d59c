// Package storage persists users, categories, transactions and budgets in
// SQLite. Dates are stored as YYYY-MM-DD text so the range filters stay plain
// lexicographic comparisons; amounts are stored as integer cents.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable. The readiness probe uses it.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// appendDateFilter extends a WHERE clause with the bounds the range actually
// carries. A zero side adds no condition.
func appendDateFilter(query string, args []any, rng core.DateRange) (string, []any) {
	if !rng.From.IsZero() {
		query += " AND t.date >= ?"
		args = append(args, rng.From.Format("2006-01-02"))
	}
	if !rng.To.IsZero() {
		query += " AND t.date <= ?"
		args = append(args, rng.To.Format("2006-01-02"))
	}
	return query, args
}

func orderClause(order core.SortOrder) string {
	switch order {
	case core.SortDateAsc:
		return " ORDER BY t.date ASC, t.id ASC"
	case core.SortAmountDesc:
		return " ORDER BY t.amount_cents DESC, t.id DESC"
	case core.SortAmountAsc:
		return " ORDER BY t.amount_cents ASC, t.id ASC"
	default:
		return " ORDER BY t.date DESC, t.id DESC"
	}
}

// --- transactions ---

func (r *SQLiteRepository) SumAmount(ctx context.Context, userID int64, tt core.TransactionType, rng core.DateRange) (core.Money, error) {
	query := `SELECT COALESCE(SUM(t.amount_cents), 0) FROM transactions t WHERE t.user_id = ? AND t.type = ?`
	args := []any{userID, string(tt)}
	query, args = appendDateFilter(query, args, rng)

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("sum %s amounts: %w", tt, err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, rng core.DateRange, order core.SortOrder, limit int) ([]core.Transaction, error) {
	query := `SELECT t.id, t.user_id, t.amount_cents, t.type, t.category_id, c.name, t.description, t.date
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?`
	args := []any{userID}
	query, args = appendDateFilter(query, args, rng)
	query += orderClause(order)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		ttype   string
		dateStr string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Amount.Cents, &ttype, &t.CategoryID, &t.CategoryName, &t.Description, &dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(ttype)
	t.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
	}
	return t, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, amount_cents, type, category_id, description, date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Amount.Cents, string(t.Type), t.CategoryID, t.Description, t.Date.ISO())
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("transaction insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"user_id", t.UserID,
		"type", t.Type,
		"amount_cents", t.Amount.Cents,
		"date", t.Date.ISO())

	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.amount_cents, t.type, t.category_id, c.name, t.description, t.date
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = ? AND t.user_id = ?`, id, userID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

// FindTransaction reads a transaction by id alone. The export worker uses it
// because AMQP events carry no user id; web handlers always go through the
// user-scoped GetTransaction instead.
func (r *SQLiteRepository) FindTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT t.id, t.user_id, t.amount_cents, t.type, t.category_id, c.name, t.description, t.date
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		SET amount_cents = ?, type = ?, category_id = ?, description = ?, date = ?
		WHERE id = ? AND user_id = ?`,
		t.Amount.Cents, string(t.Type), t.CategoryID, t.Description, t.Date.ISO(), t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res, "update transaction")
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res, "delete transaction")
}

// requireAffected maps a zero-row write onto core.ErrNotFound so services can
// distinguish a missing (or foreign) row from a real database failure.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// --- categories ---

func (r *SQLiteRepository) SumByCategory(ctx context.Context, userID int64, rng core.DateRange) ([]core.CategorySum, error) {
	query := `SELECT c.id, c.name, c.type, c.color, COALESCE(SUM(t.amount_cents), 0)
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = ?`
	args := []any{userID}
	query, args = appendDateFilter(query, args, rng)
	query += " GROUP BY c.id, c.name, c.type, c.color ORDER BY SUM(t.amount_cents) DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sum by category: %w", err)
	}
	defer rows.Close()

	var sums []core.CategorySum
	for rows.Next() {
		var (
			s     core.CategorySum
			ctype string
		)
		if err := rows.Scan(&s.CategoryID, &s.Name, &ctype, &s.Color, &s.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan category sum: %w", err)
		}
		s.Type = core.TransactionType(ctype)
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category sums: %w", err)
	}
	return sums, nil
}

func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, userID *int64, name string) (core.Category, error) {
	query := `SELECT id, user_id, name, type, color FROM categories WHERE name = ? AND user_id `
	args := []any{name}
	if userID == nil {
		query += "IS NULL"
	} else {
		query += "= ?"
		args = append(args, *userID)
	}
	return r.scanCategory(r.db.QueryRowContext(ctx, query, args...))
}

func (r *SQLiteRepository) scanCategory(row *sql.Row) (core.Category, error) {
	var (
		c     core.Category
		owner sql.NullInt64
		ctype string
	)
	err := row.Scan(&c.ID, &owner, &c.Name, &ctype, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("scan category: %w", err)
	}
	if owner.Valid {
		c.UserID = &owner.Int64
	}
	c.Type = core.TransactionType(ctype)
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, type, color) VALUES (?, ?, ?, ?)`,
		c.UserID, c.Name, string(c.Type), c.Color)
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) (predefined, custom []core.Category, err error) {
	predefined, err = r.listCategories(ctx,
		`SELECT id, user_id, name, type, color FROM categories WHERE user_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, nil, err
	}
	custom, err = r.listCategories(ctx,
		`SELECT id, user_id, name, type, color FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, nil, err
	}
	return predefined, custom, nil
}

func (r *SQLiteRepository) listCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			c     core.Category
			owner sql.NullInt64
			ctype string
		)
		if err := rows.Scan(&c.ID, &owner, &c.Name, &ctype, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if owner.Valid {
			c.UserID = &owner.Int64
		}
		c.Type = core.TransactionType(ctype)
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// --- budgets ---

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, c.name, b.limit_cents, b.frequency
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = ?
		ORDER BY b.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b    core.Budget
		freq string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Limit.Cents, &freq); err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	b.Frequency = core.Frequency(freq)
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT b.id, b.user_id, b.category_id, c.name, b.limit_cents, b.frequency
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.id = ? AND b.user_id = ?`, id, userID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	return b, err
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category_id, limit_cents, frequency) VALUES (?, ?, ?, ?)`,
		b.UserID, b.CategoryID, b.Limit.Cents, string(b.Frequency))
	if err != nil {
		return 0, fmt.Errorf("create budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("budget insert id: %w", err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", id,
		"user_id", b.UserID,
		"category_id", b.CategoryID,
		"limit_cents", b.Limit.Cents,
		"frequency", b.Frequency)

	return id, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, limit_cents = ?, frequency = ?
		WHERE id = ? AND user_id = ?`,
		b.CategoryID, b.Limit.Cents, string(b.Frequency), b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res, "update budget")
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(res, "delete budget")
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, google_id) VALUES (?, ?, ?, ?)`,
		u.Name, u.Email, u.Password, u.GoogleID)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, google_id FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, google_id FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) GetUserByGoogleID(ctx context.Context, googleID string) (core.User, error) {
	// Every local-only account stores an empty google_id, so an empty
	// lookup must not match one of them.
	if googleID == "" {
		return core.User{}, core.ErrNotFound
	}
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, google_id FROM users WHERE google_id = ?`, googleID))
}

// SetGoogleID links a Google account to an existing local user.
func (r *SQLiteRepository) SetGoogleID(ctx context.Context, userID int64, googleID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET google_id = ? WHERE id = ?`, googleID, userID)
	if err != nil {
		return fmt.Errorf("set google id: %w", err)
	}
	return requireAffected(res, "set google id")
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.GoogleID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
