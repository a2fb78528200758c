// internal/core/ports/staff.go
package ports

import (
	"context"

	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
)

// StaffRepository defines the persistence port for staff accounts.
type StaffRepository interface {
	Save(ctx context.Context, s *domain.Staff) error
	FindByUsername(ctx context.Context, username string) (*domain.Staff, error)
	FindByID(ctx context.Context, staffID int64) (*domain.Staff, error)
}
