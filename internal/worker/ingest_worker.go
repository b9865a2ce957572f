package worker

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"benefits/internal/amqp"
	"benefits/internal/core"
	"benefits/internal/ingest"
	applog "benefits/internal/log"
)

// InvoiceStore is the write side the ingest worker needs.
type InvoiceStore interface {
	CreateInvoiceFile(ctx context.Context, f core.InvoiceFile) (int64, error)
	InsertChargeRecords(ctx context.Context, fileID int64, records []core.ChargeRecord) error
}

// IngestWorker turns uploaded invoice CSVs into charge records.
type IngestWorker struct {
	store     InvoiceStore
	batchSize int
	logger    *applog.StructuredLogger
}

func NewIngestWorker(store InvoiceStore, batchSize int) *IngestWorker {
	return &IngestWorker{
		store:     store,
		batchSize: batchSize,
		logger: applog.NewStructuredLogger(applog.New(applog.Config{
			Component: applog.ComponentWorker,
		})),
	}
}

// HandleIngestMessage processes a single invoice ingest message from AMQP.
// The plan name decides the invoice month, year and default plan type; the
// CSV payload becomes charge records inserted in batches.
func (w *IngestWorker) HandleIngestMessage(ctx context.Context, msg *amqp.InvoiceIngestMessage) error {
	info, err := ingest.ParsePlanName(msg.PlanName)
	if err != nil {
		w.logger.LogError(ctx, "Rejected ingest message", err, applog.ComponentWorker, applog.OpParse,
			applog.NewFields().WithInvoiceFile(msg.PlanName, msg.FileName, "", 0))
		return fmt.Errorf("parse plan name %q: %w", msg.PlanName, err)
	}

	records, err := ingest.ParseCSV(ctx, bytes.NewReader(msg.Content), info)
	if err != nil {
		w.logger.LogError(ctx, "Failed to parse invoice CSV", err, applog.ComponentIngest, applog.OpParse,
			applog.NewFields().WithInvoiceFile(msg.PlanName, msg.FileName, info.Month, info.Year))
		return fmt.Errorf("parse CSV %q: %w", msg.FileName, err)
	}

	fileID, err := w.store.CreateInvoiceFile(ctx, core.InvoiceFile{
		PlanName:   msg.PlanName,
		FileName:   msg.FileName,
		Month:      info.Month,
		Year:       info.Year,
		UploadDate: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("create invoice file: %w", err)
	}

	for start := 0; start < len(records); start += w.batchSize {
		end := start + w.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := w.store.InsertChargeRecords(ctx, fileID, records[start:end]); err != nil {
			return fmt.Errorf("insert charge records [%d:%d]: %w", start, end, err)
		}
	}

	w.logger.LogInvoiceIngested(ctx, msg.PlanName, msg.FileName, info.Month, info.Year, len(records))

	return nil
}
