// Package email defines the outbound mail surface. The service layer
// depends on the Mailer interface only; deployments wire a real
// provider, everything else gets the log-backed implementation.
package email

import (
	"context"
	"io"
	"log"

	"eshop-api/internal/domain"
)

type Mailer interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendOrderReceipt(ctx context.Context, to string, order *domain.Order) error
}

// LogMailer writes mail events to a logger instead of sending them.
type LogMailer struct {
	logger *log.Logger
}

func NewLogMailer(logger *log.Logger) *LogMailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendWelcome(_ context.Context, to, name string) error {
	m.logger.Printf("email: welcome to=%s name=%q", to, name)
	return nil
}

func (m *LogMailer) SendOrderReceipt(_ context.Context, to string, order *domain.Order) error {
	m.logger.Printf("email: order receipt to=%s order=%s total=%s", to, order.ID, order.TotalPrice)
	return nil
}
