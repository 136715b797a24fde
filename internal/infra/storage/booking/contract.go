package booking

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
)

// Shared with dbmetrics so both *dbmetrics.DB and transactions fit
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

// Transactor runs multi-statement writes atomically; joins the transaction already in ctx
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
