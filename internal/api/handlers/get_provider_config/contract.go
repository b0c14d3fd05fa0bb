package get_provider_config

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/providers/models"
)

type ProviderService interface {
	GetConfig(ctx context.Context, providerID int64) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
