package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-CarBookingService/internal/service/catalog/models"
)

// Service сервис каталога услуг (только чтение)
type Service struct {
	serviceRepo ServiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(serviceRepo ServiceRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// ListActive возвращает активные услуги
func (s *Service) ListActive(ctx context.Context) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListActive: fetched %d services", len(services))
	return models.FromDomainServiceList(services), nil
}
