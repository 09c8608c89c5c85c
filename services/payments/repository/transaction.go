package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/piresc/ramein/internal/pkg/logger"
	"github.com/piresc/ramein/internal/pkg/models"
)

const (
	pgUniqueViolation = "23505"

	activeUserEventIndex = "uq_payment_transactions_active_user_event"

	transactionColumns = `id, order_id, user_id, event_id, amount, admin_fee, total_amount,
		status, provider, payment_method, external_id, payment_url, failure_reason,
		paid_at, expired_at, raw_gateway_response, participant_id, version, created_at, updated_at`

	participantColumns = `id, user_id, event_id, token_number, has_attended, attended_at, created_at`
)

const (
	insertTransactionQuery = `INSERT INTO payment_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	getByOrderIDQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE order_id = $1`

	getByIDQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions WHERE id = $1`

	listByUserQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE user_id = $1 ORDER BY created_at DESC`

	listByEventQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE event_id = $1 ORDER BY created_at DESC`

	findActiveQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE user_id = $1 AND event_id = $2 AND status IN ('PENDING', 'PAID')
		ORDER BY created_at DESC LIMIT 1`

	listPendingQuery = `SELECT ` + transactionColumns + ` FROM payment_transactions
		WHERE status = 'PENDING' AND created_at < $1
		ORDER BY created_at ASC LIMIT $2`

	updateGatewayInfoQuery = `UPDATE payment_transactions
		SET external_id = $1, payment_url = $2, expired_at = $3, raw_gateway_response = $4,
			version = version + 1, updated_at = $5
		WHERE id = $6 AND version = $7`

	updateStatusQuery = `UPDATE payment_transactions
		SET status = $1, payment_method = $2, failure_reason = $3, paid_at = $4, expired_at = $5,
			raw_gateway_response = $6, version = version + 1, updated_at = $7
		WHERE id = $8 AND version = $9`

	getParticipantQuery = `SELECT ` + participantColumns + ` FROM participants
		WHERE user_id = $1 AND event_id = $2`

	insertParticipantQuery = `INSERT INTO participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, event_id) DO NOTHING
		RETURNING ` + participantColumns

	linkParticipantQuery = `UPDATE payment_transactions SET participant_id = $1 WHERE id = $2`
)

// TransactionRepo is the Postgres backed payment ledger
type TransactionRepo struct {
	cfg *models.Config
	db  *sqlx.DB
	now func() time.Time
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(cfg *models.Config, db *sqlx.DB) *TransactionRepo {
	return &TransactionRepo{
		cfg: cfg,
		db:  db,
		now: time.Now,
	}
}

// CreateTransaction inserts a new transaction with version 1
func (r *TransactionRepo) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	r.prepareInsert(tx)

	if _, err := r.db.ExecContext(ctx, insertTransactionQuery, insertArgs(tx)...); err != nil {
		return insertError(err)
	}
	return nil
}

// CreatePaid inserts a transaction that is settled on creation together with
// its participant record. Either both rows are written or neither is.
func (r *TransactionRepo) CreatePaid(ctx context.Context, tx *models.Transaction, participant *models.Participant) (*models.Participant, error) {
	r.prepareInsert(tx)
	tx.Status = models.PaymentStatusPaid
	if tx.PaidAt == nil {
		paidAt := tx.CreatedAt
		tx.PaidAt = &paidAt
	}

	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := dbTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to rollback paid insert",
					logger.String("order_id", tx.OrderID),
					logger.Err(rbErr))
			}
		}
	}()

	var linked *models.Participant
	linked, err = r.ensureParticipant(ctx, dbTx, participant, tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.ParticipantID = &linked.ID

	if _, err = dbTx.ExecContext(ctx, insertTransactionQuery, insertArgs(tx)...); err != nil {
		err = insertError(err)
		return nil, err
	}

	if err = dbTx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit paid insert: %w", err)
		return nil, err
	}
	return linked, nil
}

func (r *TransactionRepo) prepareInsert(tx *models.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = r.now().UTC()
	}
	tx.UpdatedAt = tx.CreatedAt
	tx.Version = 1
}

func insertArgs(tx *models.Transaction) []interface{} {
	return []interface{}{
		tx.ID,
		tx.OrderID,
		tx.UserID,
		tx.EventID,
		tx.Amount,
		tx.AdminFee,
		tx.TotalAmount,
		tx.Status,
		tx.Provider,
		tx.PaymentMethod,
		tx.ExternalID,
		tx.PaymentURL,
		tx.FailureReason,
		tx.PaidAt,
		tx.ExpiredAt,
		tx.RawGatewayResponse,
		tx.ParticipantID,
		tx.Version,
		tx.CreatedAt,
		tx.UpdatedAt,
	}
}

func insertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == activeUserEventIndex {
		return models.ErrAlreadyRegistered
	}
	return fmt.Errorf("failed to create transaction: %w", err)
}

func (r *TransactionRepo) GetByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	return r.getOne(ctx, getByOrderIDQuery, orderID)
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return r.getOne(ctx, getByIDQuery, id)
}

func (r *TransactionRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

// ListByUser returns the user's transactions, newest first
func (r *TransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, listByUserQuery, userID); err != nil {
		return nil, fmt.Errorf("failed to list user transactions: %w", err)
	}
	return txs, nil
}

// ListByEvent returns the event's transactions, newest first
func (r *TransactionRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, listByEventQuery, eventID); err != nil {
		return nil, fmt.Errorf("failed to list event transactions: %w", err)
	}
	return txs, nil
}

// buildFilter turns a filter into a WHERE clause with positional arguments
func buildFilter(filter models.TransactionFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.UserID != uuid.Nil {
		add("user_id = $%d", filter.UserID)
	}
	if filter.EventID != uuid.Nil {
		add("event_id = $%d", filter.EventID)
	}
	if filter.Provider != "" {
		add("provider = $%d", filter.Provider)
	}
	if filter.From != nil {
		add("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("created_at < $%d", *filter.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of the ledger and the total number of matching rows
func (r *TransactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, int64, error) {
	filter.Normalize()
	where, args := buildFilter(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM payment_transactions"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM payment_transactions%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		transactionColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	txs := []*models.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

type statusAggregate struct {
	Status   models.PaymentStatus `db:"status"`
	Count    int64                `db:"count"`
	Amount   int64                `db:"total_amount"`
	AdminFee int64                `db:"admin_fee"`
}

// GetStats aggregates the matching transactions; revenue only counts PAID ones
func (r *TransactionRepo) GetStats(ctx context.Context, filter models.TransactionFilter) (*models.TransactionStats, error) {
	where, args := buildFilter(filter)
	query := `SELECT status, COUNT(*) AS count,
		COALESCE(SUM(total_amount), 0) AS total_amount, COALESCE(SUM(admin_fee), 0) AS admin_fee
		FROM payment_transactions` + where + ` GROUP BY status`

	var rows []statusAggregate
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	stats := &models.TransactionStats{CountByStatus: make(map[models.PaymentStatus]int64)}
	for _, s := range models.AllPaymentStatuses() {
		stats.CountByStatus[s] = 0
	}
	for _, row := range rows {
		stats.Total += row.Count
		stats.CountByStatus[row.Status] = row.Count
		if row.Status == models.PaymentStatusPaid {
			stats.TotalRevenue = row.Amount
			stats.TotalAdminFee = row.AdminFee
		}
	}
	return stats, nil
}

// FindActiveByUserEvent returns the latest PENDING or PAID transaction of the pair, or nil
func (r *TransactionRepo) FindActiveByUserEvent(ctx context.Context, userID, eventID uuid.UUID) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.GetContext(ctx, &tx, findActiveQuery, userID, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active transaction: %w", err)
	}
	return &tx, nil
}

// ListPending returns up to limit PENDING transactions created before olderThan, oldest first
func (r *TransactionRepo) ListPending(ctx context.Context, olderThan time.Time, limit int) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	if err := r.db.SelectContext(ctx, &txs, listPendingQuery, olderThan, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return txs, nil
}

// UpdateGatewayInfo stores the charge details; tx.Version is the expected version
func (r *TransactionRepo) UpdateGatewayInfo(ctx context.Context, tx *models.Transaction) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx, updateGatewayInfoQuery,
		tx.ExternalID,
		tx.PaymentURL,
		tx.ExpiredAt,
		tx.RawGatewayResponse,
		now,
		tx.ID,
		tx.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update gateway info: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	tx.Version++
	tx.UpdatedAt = now
	return nil
}

// UpdateStatus writes the status fields if the row is still at expectedVersion
func (r *TransactionRepo) UpdateStatus(ctx context.Context, tx *models.Transaction, expectedVersion int64) error {
	now := r.now().UTC()
	res, err := r.db.ExecContext(ctx, updateStatusQuery,
		tx.Status,
		tx.PaymentMethod,
		tx.FailureReason,
		tx.PaidAt,
		tx.ExpiredAt,
		tx.RawGatewayResponse,
		now,
		tx.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	tx.Version = expectedVersion + 1
	tx.UpdatedAt = now
	return nil
}

// MarkPaid moves the transaction to PAID and links the user's participant
// record in one database transaction. An existing participant for the same
// user and event is reused, so at most one row exists per pair.
func (r *TransactionRepo) MarkPaid(ctx context.Context, tx *models.Transaction, participant *models.Participant, expectedVersion int64) (*models.Participant, error) {
	now := r.now().UTC()
	tx.Status = models.PaymentStatusPaid
	if tx.PaidAt == nil {
		tx.PaidAt = &now
	}

	dbTx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := dbTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Error("Failed to rollback mark paid",
					logger.String("order_id", tx.OrderID),
					logger.Err(rbErr))
			}
		}
	}()

	var res sql.Result
	res, err = dbTx.ExecContext(ctx, updateStatusQuery,
		tx.Status,
		tx.PaymentMethod,
		tx.FailureReason,
		tx.PaidAt,
		tx.ExpiredAt,
		tx.RawGatewayResponse,
		now,
		tx.ID,
		expectedVersion,
	)
	if err != nil {
		err = fmt.Errorf("failed to mark transaction paid: %w", err)
		return nil, err
	}
	if err = checkAffected(res); err != nil {
		return nil, err
	}

	var linked *models.Participant
	linked, err = r.ensureParticipant(ctx, dbTx, participant, now)
	if err != nil {
		return nil, err
	}

	if _, err = dbTx.ExecContext(ctx, linkParticipantQuery, linked.ID, tx.ID); err != nil {
		err = fmt.Errorf("failed to link participant: %w", err)
		return nil, err
	}

	if err = dbTx.Commit(); err != nil {
		err = fmt.Errorf("failed to commit mark paid: %w", err)
		return nil, err
	}

	tx.Version = expectedVersion + 1
	tx.UpdatedAt = now
	tx.ParticipantID = &linked.ID
	return linked, nil
}

func (r *TransactionRepo) ensureParticipant(ctx context.Context, dbTx *sqlx.Tx, p *models.Participant, now time.Time) (*models.Participant, error) {
	var existing models.Participant
	err := dbTx.GetContext(ctx, &existing, getParticipantQuery, p.UserID, p.EventID)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up participant: %w", err)
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	var created models.Participant
	err = dbTx.GetContext(ctx, &created, insertParticipantQuery,
		p.ID, p.UserID, p.EventID, p.TokenNumber, p.HasAttended, p.AttendedAt, p.CreatedAt)
	if err == nil {
		return &created, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	// a concurrent insert won the conflict
	if err := dbTx.GetContext(ctx, &existing, getParticipantQuery, p.UserID, p.EventID); err != nil {
		return nil, fmt.Errorf("failed to load participant after conflict: %w", err)
	}
	return &existing, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return models.ErrVersionConflict
	}
	return nil
}
