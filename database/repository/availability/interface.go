package availabilityRepo

import (
	"context"

	"medibook/models"
)

// TemplateRepository stores recurring weekly availability templates. The
// booking core only reads them; writes belong to the operator surface.
type TemplateRepository interface {
	ListByDoctor(ctx context.Context, doctorID string) ([]models.AvailabilityTemplate, error)
	ListByHospital(ctx context.Context, hospitalID string) ([]models.AvailabilityTemplate, error)
	Upsert(ctx context.Context, tpl *models.AvailabilityTemplate) error
	DeleteByID(ctx context.Context, id string) error
	EnsureIndexes() error
}
