package sales

import (
	"context"
	"errors"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/repository/memory"
)

func saleQuery(id int64) repository.SaleQuery {
	return repository.SaleQuery{Timestamp: id}
}

// duplicateFinder returns a fixed result set from every lookup.
type duplicateFinder struct {
	*memory.Store
	sales []models.Sale
}

func (d duplicateFinder) FindSales(context.Context, repository.SaleQuery) ([]models.Sale, error) {
	return d.sales, nil
}

// racingStore lands a rival repayment between the read and the write of the caller.
type racingStore struct {
	*memory.Store
	rival float64
}

func (r *racingStore) UpdateSale(ctx context.Context, sale models.Sale, expectedVersion int64) error {
	current, err := r.Store.FindSales(ctx, saleQuery(sale.Timestamp))
	if err != nil {
		return err
	}
	rival := applyRepayment(current[0], models.Money(r.rival), current[0].InstallmentHistory[0].RepayDate)
	if err := r.Store.UpdateSale(ctx, rival, current[0].Version); err != nil {
		return err
	}
	return r.Store.UpdateSale(ctx, sale, expectedVersion)
}

// brokenLedger fails every activity write.
type brokenLedger struct {
	*memory.Store
}

func (brokenLedger) InsertActivity(context.Context, models.ActivityRecord) error {
	return errors.New("ledger unavailable")
}
