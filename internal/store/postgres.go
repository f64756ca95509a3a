package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"SMARTTRIP_BACK-END/internal/config"
	"SMARTTRIP_BACK-END/internal/logger"
	"SMARTTRIP_BACK-END/internal/models"
)

const uniqueViolation = "23505"

// Postgres is the Store backed by the remote database
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens a pool and pings it before returning
func NewPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Postgres, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol is required behind PgBouncer in transaction mode
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = "smarttrip-backend"
	pcfg.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.Database.QueryTimeout.Milliseconds(), 10)
	pcfg.ConnConfig.Tracer = &logger.QueryTracer{Logger: log.With().Str("component", "pgx").Logger()}
	pcfg.MaxConns = cfg.Database.MaxConns
	pcfg.MinConns = cfg.Database.MinConns
	pcfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool
func NewPostgresFromPool(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

const tripColumns = `t.id, t.user_id, t.title, t.destination, t.start_date, t.end_date, t.total_budget, t.notes, t.created_at, t.updated_at`

func scanTrip(row pgx.Row, extra ...any) (models.Trip, error) {
	var t models.Trip
	dest := append([]any{
		&t.ID, &t.UserID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.TotalBudget, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	return t, err
}

func (p *Postgres) ListTrips(ctx context.Context, userID uuid.UUID) ([]models.TripWithSpend, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+tripColumns+`,
                COALESCE(array_agg(e.amount::text) FILTER (WHERE e.id IS NOT NULL), '{}') AS amounts
           FROM trips t
           LEFT JOIN expenses e ON e.trip_id = t.id
          WHERE t.user_id = $1
          GROUP BY t.id
          ORDER BY t.start_date DESC, t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	items := make([]models.TripWithSpend, 0)
	for rows.Next() {
		var raw []string
		t, err := scanTrip(rows, &raw)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		amounts := make([]decimal.Decimal, 0, len(raw))
		for _, s := range raw {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("parse amount %q: %w", s, err)
			}
			amounts = append(amounts, d)
		}
		items = append(items, models.TripWithSpend{Trip: t, ExpenseAmounts: amounts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return items, nil
}

func (p *Postgres) GetTrip(ctx context.Context, userID, tripID uuid.UUID) (models.Trip, error) {
	t, err := scanTrip(p.pool.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips t WHERE t.id = $1 AND t.user_id = $2`, tripID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Trip{}, ErrNotFound
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

func (p *Postgres) InsertTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO trips (id, user_id, title, destination, start_date, end_date, total_budget, notes)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING created_at, updated_at`,
		trip.ID, trip.UserID, trip.Title, trip.Destination, trip.StartDate, trip.EndDate, trip.TotalBudget, trip.Notes,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Trip{}, ErrConflict
		}
		return models.Trip{}, fmt.Errorf("insert trip: %w", err)
	}
	return trip, nil
}

func (p *Postgres) UpdateTrip(ctx context.Context, trip models.Trip) (models.Trip, error) {
	err := p.pool.QueryRow(ctx,
		`UPDATE trips
            SET title = $1,
                destination = $2,
                start_date = $3,
                end_date = $4,
                total_budget = $5,
                notes = $6,
                updated_at = now()
          WHERE id = $7 AND user_id = $8
      RETURNING created_at, updated_at`,
		trip.Title, trip.Destination, trip.StartDate, trip.EndDate, trip.TotalBudget, trip.Notes, trip.ID, trip.UserID,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Trip{}, ErrNotFound
	}
	if err != nil {
		return models.Trip{}, fmt.Errorf("update trip: %w", err)
	}
	return trip, nil
}

// DeleteTrip relies on ON DELETE CASCADE to remove the trip's expenses
func (p *Postgres) DeleteTrip(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, tripID, userID); err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	return nil
}

const expenseColumns = `e.id, e.user_id, e.trip_id, e.amount, e.category, e.date, e.note, e.payment_method, e.created_at`

func scanExpense(row pgx.Row, extra ...any) (models.Expense, error) {
	var (
		e        models.Expense
		category string
		method   *string
	)
	dest := append([]any{
		&e.ID, &e.UserID, &e.TripID, &e.Amount, &category, &e.Date, &e.Note, &method, &e.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Expense{}, err
	}
	e.Category = models.Category(category)
	if method != nil {
		pm := models.PaymentMethod(*method)
		e.PaymentMethod = &pm
	}
	return e, nil
}

func (p *Postgres) ListExpenses(ctx context.Context, userID uuid.UUID, filter ExpenseFilter) ([]models.ExpenseWithTrip, error) {
	args := []any{userID}
	query := `SELECT ` + expenseColumns + `, t.title
           FROM expenses e
           JOIN trips t ON t.id = e.trip_id
          WHERE e.user_id = $1`
	if filter.TripID != nil {
		args = append(args, *filter.TripID)
		query += fmt.Sprintf(" AND e.trip_id = $%d", len(args))
	}
	query += ` ORDER BY e.date DESC, e.created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	items := make([]models.ExpenseWithTrip, 0)
	for rows.Next() {
		var title string
		e, err := scanExpense(rows, &title)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		items = append(items, models.ExpenseWithTrip{Expense: e, TripTitle: title})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return items, nil
}

// InsertExpense only inserts when the trip belongs to the expense's user
func (p *Postgres) InsertExpense(ctx context.Context, expense models.Expense) (models.Expense, error) {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	var method *string
	if expense.PaymentMethod != nil {
		s := string(*expense.PaymentMethod)
		method = &s
	}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO expenses (id, user_id, trip_id, amount, category, date, note, payment_method)
         SELECT $1::uuid, $2::uuid, t.id, $4::numeric, $5::text, $6::date, $7::text, $8::text
           FROM trips t
          WHERE t.id = $3 AND t.user_id = $2
         RETURNING created_at`,
		expense.ID, expense.UserID, expense.TripID, expense.Amount, string(expense.Category), expense.Date, expense.Note, method,
	).Scan(&expense.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	return expense, nil
}

func (p *Postgres) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) (models.Expense, error) {
	e, err := scanExpense(p.pool.QueryRow(ctx,
		`DELETE FROM expenses e WHERE e.id = $1 AND e.user_id = $2 RETURNING `+expenseColumns, expenseID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, fmt.Errorf("delete expense: %w", err)
	}
	return e, nil
}

func (p *Postgres) TotalBudget(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_budget), 0) FROM trips WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total budget: %w", err)
	}
	return total, nil
}

func (p *Postgres) TotalSpent(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := p.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total spent: %w", err)
	}
	return total, nil
}

func (p *Postgres) CreateUser(ctx context.Context, user models.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, avatar_url, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.AvatarURL, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userColumns = `id, email, password_hash, display_name, avatar_url, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (p *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	return scanUser(p.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}
