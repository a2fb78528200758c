// internal/core/ports/invoice.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// InvoiceRepository is the billing read model. Invoices are derived from
// orders and current medicine prices; nothing is stored.
type InvoiceRepository interface {
	BuildForOrder(ctx context.Context, orderID int64) (*domain.Invoice, error)
	ListAll(ctx context.Context) ([]domain.Invoice, error)
}
