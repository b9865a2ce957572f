package worker

import (
	"context"
	"errors"
	"testing"

	"benefits/internal/amqp"
	"benefits/internal/core"
)

type fakeStore struct {
	file      core.InvoiceFile
	batches   [][]core.ChargeRecord
	createErr error
	insertErr error
}

func (s *fakeStore) CreateInvoiceFile(_ context.Context, f core.InvoiceFile) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.file = f
	return 42, nil
}

func (s *fakeStore) InsertChargeRecords(_ context.Context, fileID int64, records []core.ChargeRecord) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	if fileID != 42 {
		return errors.New("unexpected file id")
	}
	batch := make([]core.ChargeRecord, len(records))
	copy(batch, records)
	s.batches = append(s.batches, batch)
	return nil
}

const invoiceCSV = "ID,Coverage Type,Adj Code,Coverage Dates,Charge Amount\n" +
	"001 - Doe John,EMPLOYEE,,10/01/2024 - 10/31/2024,\"$1,234.56\"\n" +
	"002 - Smith Jane,SPOUSE,RETRO TERM,09/01/2024 - 09/30/2024,(45.00)\n" +
	"003 - Roe Rick,EMPLOYEE,,10/01/2024 - 10/31/2024,100.00\n"

func TestHandleIngestMessage(t *testing.T) {
	store := &fakeStore{}
	w := NewIngestWorker(store, 2)

	msg := amqp.NewInvoiceIngestMessage("UHC-2000-OCT-2024", "uhc_oct.csv", []byte(invoiceCSV))
	if err := w.HandleIngestMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleIngestMessage: %v", err)
	}

	if store.file.PlanName != "UHC-2000-OCT-2024" || store.file.Month != "OCT" || store.file.Year != 2024 {
		t.Errorf("invoice file = %+v", store.file)
	}
	if store.file.FileName != "uhc_oct.csv" {
		t.Errorf("file name = %q", store.file.FileName)
	}

	// 3 records with batch size 2 means two inserts.
	if len(store.batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(store.batches))
	}
	if len(store.batches[0]) != 2 || len(store.batches[1]) != 1 {
		t.Errorf("batch sizes = %d, %d, want 2, 1", len(store.batches[0]), len(store.batches[1]))
	}

	first := store.batches[0][0]
	if first.SubscriberName != "001 - Doe John" || first.Plan != "UHC-2000" {
		t.Errorf("first record = %+v", first)
	}
	if first.Status != "NO ADJUSTMENTS" {
		t.Errorf("first record status = %q, want NO ADJUSTMENTS", first.Status)
	}
}

func TestHandleIngestMessageBadPlanName(t *testing.T) {
	w := NewIngestWorker(&fakeStore{}, 10)

	msg := amqp.NewInvoiceIngestMessage("NOT-A-PLAN", "x.csv", []byte(invoiceCSV))
	if err := w.HandleIngestMessage(context.Background(), msg); err == nil {
		t.Fatal("expected error for malformed plan name")
	}
}

func TestHandleIngestMessageInsertError(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("constraint violation")}
	w := NewIngestWorker(store, 10)

	msg := amqp.NewInvoiceIngestMessage("UHG-OCT-2024", "uhg.csv", []byte(invoiceCSV))
	if err := w.HandleIngestMessage(context.Background(), msg); err == nil {
		t.Fatal("expected insert error to propagate")
	}
}
