package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/puyolnw/sales-import-service/models"
)

// SalesChannelElsa is the channel key for the Elsa point-of-sale system.
const SalesChannelElsa = "elsa"

// elsaTransactionPrefix prefixes ledger transaction numbers for this channel.
const elsaTransactionPrefix = "ELSA"

// BuildSaleEntry derives, for one matched (record, product) pair, the ledger
// transaction and the proposed new catalog entry. The input product is never
// mutated; a fresh value is returned. The transaction number is reproducible
// from the record alone so reconciliation against the source system stays
// idempotent on the ledger side.
//
// Stock is decremented without a floor: negative stock is representable and
// surfaced downstream as an operational anomaly, not clamped away. Any panic
// during derivation is recovered and reported as a row-level error.
func BuildSaleEntry(record models.SalesRecord, product models.Product, runTime time.Time) (txn models.SalesTransaction, updated models.Product, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to derive sale entry: %v", r)
		}
	}()

	txn = models.SalesTransaction{
		ID:                  uuid.New().String(),
		TransactionNo:       fmt.Sprintf("%s-%s", elsaTransactionPrefix, record.ExternalReferenceID),
		ProductID:           product.ID,
		ProductName:         product.Name,
		Quantity:            record.Quantity,
		PricePerUnit:        product.PricePerUnit,
		TotalAmount:         record.Quantity * product.PricePerUnit,
		Channel:             SalesChannelElsa,
		Date:                record.Date,
		Time:                runTime.Format("15:04:05"),
		SoldBy:              record.AgentName,
		ExternalReferenceID: record.ExternalReferenceID,
	}

	updated = cloneProduct(product)
	updated.CurrentStock = product.CurrentStock - record.Quantity
	updated.Status = StockStatus(updated.CurrentStock, updated.MinThreshold)

	channel := updated.SalesChannels[SalesChannelElsa]
	channel.DailySales += record.Quantity
	channel.LastSyncDate = runTime
	channel.ExternalReferenceID = record.ExternalReferenceID
	updated.SalesChannels[SalesChannelElsa] = channel

	updated.SalesHistory = append(updated.SalesHistory, txn.ID)
	updated.LastUpdated = runTime

	return txn, updated, nil
}

// StockStatus classifies a stock level against the minimum threshold. The
// comparison uses the new stock, after the sale has been applied.
func StockStatus(stock, minThreshold float64) string {
	switch {
	case stock <= 0:
		return models.StatusOutOfStock
	case stock < minThreshold:
		return models.StatusLowStock
	default:
		return models.StatusInStock
	}
}

// cloneProduct copies a catalog entry including its channel map and history
// slice, so proposed updates never alias the snapshot.
func cloneProduct(p models.Product) models.Product {
	out := p
	out.SalesChannels = make(map[string]models.ChannelStats, len(p.SalesChannels)+1)
	for k, v := range p.SalesChannels {
		out.SalesChannels[k] = v
	}
	out.SalesHistory = append([]string(nil), p.SalesHistory...)
	return out
}
