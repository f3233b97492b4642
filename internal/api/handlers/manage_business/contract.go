package manage_business

import (
	"context"

	"github.com/smartappt/booking-service/internal/service/businessconfig/models"
)

type BusinessConfigService interface {
	CreateBusiness(ctx context.Context, req *models.CreateBusinessRequest) (*models.BusinessResponse, error)
	GetBusiness(ctx context.Context, id int64) (*models.BusinessResponse, error)
	UpdateBusiness(ctx context.Context, businessID int64, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error)
	DeleteBusiness(ctx context.Context, businessID, userID int64) error

	CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error)
	ListServices(ctx context.Context, businessID int64) (*models.ServiceListResponse, error)
	UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error)
	SetServiceActive(ctx context.Context, businessID, serviceID, userID int64, active bool) error
	DeleteService(ctx context.Context, businessID, serviceID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
