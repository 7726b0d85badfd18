package services

import (
	"testing"
	"time"

	"github.com/puyolnw/sales-import-service/models"
)

var ledgerRunTime = time.Date(2026, 8, 27, 14, 5, 9, 0, time.UTC)

func ledgerProduct() models.Product {
	return models.Product{
		ID:           "P001",
		Name:         "Engine Oil 5W-30",
		CurrentStock: 10,
		MinThreshold: 5,
		PricePerUnit: 250,
		Status:       models.StatusInStock,
		SalesChannels: map[string]models.ChannelStats{
			SalesChannelElsa: {DailySales: 4},
		},
		SalesHistory: []string{"txn-old"},
	}
}

func ledgerRecord(quantity float64) models.SalesRecord {
	return models.SalesRecord{
		ProductID:           "P001",
		ProductName:         "Engine Oil 5W-30",
		Quantity:            quantity,
		Date:                "2026-08-20",
		ExternalReferenceID: "EL-778",
		AgentName:           "Anan",
	}
}

func TestBuildSaleEntryTransaction(t *testing.T) {
	txn, _, err := BuildSaleEntry(ledgerRecord(6), ledgerProduct(), ledgerRunTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.TransactionNo != "ELSA-EL-778" {
		t.Fatalf("unexpected transaction no: %q", txn.TransactionNo)
	}
	if txn.TotalAmount != 6*250 {
		t.Fatalf("expected total 1500, got %g", txn.TotalAmount)
	}
	if txn.Channel != SalesChannelElsa {
		t.Fatalf("expected elsa channel, got %q", txn.Channel)
	}
	if txn.Date != "2026-08-20" || txn.Time != "14:05:09" {
		t.Fatalf("unexpected date/time: %q %q", txn.Date, txn.Time)
	}
	if txn.SoldBy != "Anan" || txn.ExternalReferenceID != "EL-778" {
		t.Fatalf("unexpected attribution: %+v", txn)
	}
}

func TestBuildSaleEntryStockAndStatus(t *testing.T) {
	cases := []struct {
		quantity   float64
		wantStock  float64
		wantStatus string
	}{
		{6, 4, models.StatusLowStock},
		{10, 0, models.StatusOutOfStock},
		{2, 8, models.StatusInStock},
		{12, -2, models.StatusOutOfStock}, // negative stock is representable, not clamped
	}

	for _, tc := range cases {
		_, updated, err := BuildSaleEntry(ledgerRecord(tc.quantity), ledgerProduct(), ledgerRunTime)
		if err != nil {
			t.Fatalf("quantity %g: unexpected error: %v", tc.quantity, err)
		}
		if updated.CurrentStock != tc.wantStock {
			t.Fatalf("quantity %g: expected stock %g, got %g", tc.quantity, tc.wantStock, updated.CurrentStock)
		}
		if updated.Status != tc.wantStatus {
			t.Fatalf("quantity %g: expected status %q, got %q", tc.quantity, tc.wantStatus, updated.Status)
		}
	}
}

func TestBuildSaleEntryChannelAggregate(t *testing.T) {
	txn, updated, err := BuildSaleEntry(ledgerRecord(6), ledgerProduct(), ledgerRunTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ch := updated.SalesChannels[SalesChannelElsa]
	if ch.DailySales != 10 {
		t.Fatalf("expected daily sales 4+6=10, got %g", ch.DailySales)
	}
	if !ch.LastSyncDate.Equal(ledgerRunTime) {
		t.Fatalf("expected last sync at run time, got %v", ch.LastSyncDate)
	}
	if ch.ExternalReferenceID != "EL-778" {
		t.Fatalf("expected reference id on channel, got %q", ch.ExternalReferenceID)
	}

	if len(updated.SalesHistory) != 2 || updated.SalesHistory[1] != txn.ID {
		t.Fatalf("expected transaction appended to history, got %v", updated.SalesHistory)
	}
	if !updated.LastUpdated.Equal(ledgerRunTime) {
		t.Fatalf("expected last updated at run time, got %v", updated.LastUpdated)
	}
}

func TestBuildSaleEntryNilChannelMap(t *testing.T) {
	product := ledgerProduct()
	product.SalesChannels = nil

	_, updated, err := BuildSaleEntry(ledgerRecord(1), product, ledgerRunTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.SalesChannels[SalesChannelElsa].DailySales != 1 {
		t.Fatalf("expected channel created on demand, got %+v", updated.SalesChannels)
	}
}

func TestBuildSaleEntryDoesNotMutateInput(t *testing.T) {
	product := ledgerProduct()
	_, _, err := BuildSaleEntry(ledgerRecord(6), product, ledgerRunTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.CurrentStock != 10 || product.Status != models.StatusInStock {
		t.Fatalf("input product mutated: %+v", product)
	}
	if product.SalesChannels[SalesChannelElsa].DailySales != 4 {
		t.Fatalf("input channel stats mutated: %+v", product.SalesChannels)
	}
	if len(product.SalesHistory) != 1 {
		t.Fatalf("input history mutated: %v", product.SalesHistory)
	}
}

func TestStockStatusThresholds(t *testing.T) {
	cases := []struct {
		stock, threshold float64
		want             string
	}{
		{0, 5, models.StatusOutOfStock},
		{-3, 5, models.StatusOutOfStock},
		{4, 5, models.StatusLowStock},
		{5, 5, models.StatusInStock},
		{8, 5, models.StatusInStock},
	}
	for _, tc := range cases {
		if got := StockStatus(tc.stock, tc.threshold); got != tc.want {
			t.Fatalf("StockStatus(%g, %g) = %q, want %q", tc.stock, tc.threshold, got, tc.want)
		}
	}
}
