package models

import "github.com/m04kA/SMC-CarBookingService/internal/domain"

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	ServiceType         string  `json:"serviceType"`
	IsActive            bool    `json:"isActive"`
	BaseDurationMinutes int     `json:"baseDurationMinutes"`
	Description         *string `json:"description,omitempty"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, s := range services {
		resp.Services = append(resp.Services, ServiceResponse{
			ID:                  s.ID,
			Title:               s.Title,
			ServiceType:         s.ServiceType.String(),
			IsActive:            s.IsActive,
			BaseDurationMinutes: s.BaseDurationMinutes,
			Description:         s.Description,
		})
	}

	return resp
}
