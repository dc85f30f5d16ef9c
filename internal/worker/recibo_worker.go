package worker

// recibo_worker.go
// Renders the PDF receipt for a committed sale and mails it to the customer.
// Runs outside the sale transaction: a failure here never unwinds the sale,
// it just parks the job in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"sistemapos/internal/infra"
	"sistemapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReciboWorker struct {
	ventaRepo   repository.VentaRepository
	mailer      *infra.Mailer
	smtpBreaker *infra.CircuitBreaker
	storagePath string
}

func NewReciboWorker(ventaRepo repository.VentaRepository, mailer *infra.Mailer, smtpBreaker *infra.CircuitBreaker, storagePath string) *ReciboWorker {
	return &ReciboWorker{
		ventaRepo:   ventaRepo,
		mailer:      mailer,
		smtpBreaker: smtpBreaker,
		storagePath: storagePath,
	}
}

// Process renders and sends one receipt. Returning an error sends the job to
// the DLQ.
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("recibo_worker: invalid payload: %w", err)
	}
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return fmt.Errorf("recibo_worker: invalid venta_id %q: %w", payload.VentaID, err)
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return fmt.Errorf("recibo_worker: load venta %s: %w", ventaID, err)
	}

	pdfPath, err := infra.GenerateReciboPDF(venta, w.storagePath)
	if err != nil {
		return fmt.Errorf("recibo_worker: render PDF: %w", err)
	}

	if payload.ClienteEmail == "" {
		log.Warn().Str("venta_id", payload.VentaID).Msg("recibo_worker: empty cliente_email — PDF kept on disk only")
		return nil
	}

	subject := "Recibo de su compra"
	body := fmt.Sprintf("Adjuntamos el recibo de su compra por un total de $%s.", venta.Total.StringFixed(2))
	err = w.smtpBreaker.Execute(func() error {
		return w.mailer.SendRecibo(payload.ClienteEmail, subject, body, pdfPath)
	})
	if err != nil {
		return fmt.Errorf("recibo_worker: send email: %w", err)
	}

	log.Info().Str("venta_id", payload.VentaID).Str("to", payload.ClienteEmail).Msg("recibo enviado")
	return nil
}
