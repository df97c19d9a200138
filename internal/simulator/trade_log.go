package simulator

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/primtrade/prim-trading/internal/logger"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"go.uber.org/zap"
)

// TradeLog stores closed trades in an in-memory DuckDB database. Records are
// immutable once appended; the analyzer reads them back in entry-time order.
type TradeLog struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewTradeLog opens an in-memory trade log.
func NewTradeLog(l *logger.Logger) (*TradeLog, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to open trade log database", err)
	}

	return &TradeLog{
		db:     db,
		logger: l,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the trades table.
func (t *TradeLog) Initialize() error {
	_, err := t.db.Exec(`
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			symbol TEXT,
			direction TEXT,
			size DOUBLE,
			entry_time TIMESTAMP,
			entry_price DOUBLE,
			exit_time TIMESTAMP,
			exit_price DOUBLE,
			exit_reason TEXT,
			pnl DOUBLE,
			fees DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to create trades table", err)
	}

	return nil
}

// Append stores one closed trade, assigning an ID when the record carries
// none. The stored record is returned.
func (t *TradeLog) Append(trade types.TradeRecord) (types.TradeRecord, error) {
	if trade.ID == "" {
		trade.ID = uuid.New().String()
	}

	insert := t.sq.
		Insert("trades").
		Columns(
			"id", "symbol", "direction", "size", "entry_time", "entry_price",
			"exit_time", "exit_price", "exit_reason", "pnl", "fees",
		).
		Values(
			trade.ID, trade.Symbol, string(trade.Direction), trade.Size,
			trade.EntryTime, trade.EntryPrice, trade.ExitTime, trade.ExitPrice,
			string(trade.ExitReason), trade.PnL, trade.Fees,
		).
		RunWith(t.db)

	if _, err := insert.Exec(); err != nil {
		return types.TradeRecord{}, errors.Wrap(errors.ErrCodeTradeLogFailed, "failed to append trade", err)
	}

	t.logger.Debug("trade recorded",
		zap.String("id", trade.ID),
		zap.String("direction", string(trade.Direction)),
		zap.String("exit_reason", string(trade.ExitReason)),
		zap.Float64("pnl", trade.PnL),
	)

	return trade, nil
}

// Trades returns all closed trades ordered by entry time.
func (t *TradeLog) Trades() ([]types.TradeRecord, error) {
	query := t.sq.
		Select(
			"id", "symbol", "direction", "size", "entry_time", "entry_price",
			"exit_time", "exit_price", "exit_reason", "pnl", "fees",
		).
		From("trades").
		OrderBy("entry_time ASC").
		RunWith(t.db)

	rows, err := query.Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query trades", err)
	}
	defer rows.Close()

	var trades []types.TradeRecord

	for rows.Next() {
		var (
			trade                 types.TradeRecord
			direction, exitReason string
			entryTime, exitTime   time.Time
		)

		err := rows.Scan(
			&trade.ID, &trade.Symbol, &direction, &trade.Size, &entryTime,
			&trade.EntryPrice, &exitTime, &trade.ExitPrice, &exitReason,
			&trade.PnL, &trade.Fees,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan trade", err)
		}

		trade.Direction = types.Direction(direction)
		trade.ExitReason = types.ExitReason(exitReason)
		trade.EntryTime = entryTime.UTC()
		trade.ExitTime = exitTime.UTC()
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate trades", err)
	}

	return trades, nil
}

// Count returns the number of closed trades.
func (t *TradeLog) Count() (int, error) {
	var count int

	err := t.sq.Select("COUNT(*)").From("trades").RunWith(t.db).QueryRow().Scan(&count)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count trades", err)
	}

	return count, nil
}

// GrossTotals returns the summed positive P&L and the summed magnitude of
// negative P&L across all closed trades.
func (t *TradeLog) GrossTotals() (grossProfit, grossLoss float64, err error) {
	query := t.sq.
		Select(
			"COALESCE(SUM(CASE WHEN pnl > 0 THEN pnl ELSE 0 END), 0)",
			"COALESCE(SUM(CASE WHEN pnl < 0 THEN -pnl ELSE 0 END), 0)",
		).
		From("trades").
		RunWith(t.db)

	if err := query.QueryRow().Scan(&grossProfit, &grossLoss); err != nil {
		return 0, 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to aggregate trades", err)
	}

	return grossProfit, grossLoss, nil
}

// Close releases the underlying database.
func (t *TradeLog) Close() error {
	return t.db.Close()
}
