package get_available_slots

import (
	"net/url"
	"strconv"
	"time"

	getAvailableSlots "github.com/m04kA/SMC-CarBookingService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string   `json:"date"`
	ServiceID   int64    `json:"serviceId"`
	SlotMinutes int      `json:"slotMinutes"`
	FreeSlots   []string `json:"freeSlots"`
}

// ToUseCaseRequest создает запрос use case из query параметров
// serviceId и date проверяются обработчиком, slotMinutes и carId опциональны
func ToUseCaseRequest(serviceID int64, date string, query url.Values) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}

	if s := query.Get("slotMinutes"); s != "" {
		slotMinutes, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		req.SlotMinutes = &slotMinutes
	}

	if s := query.Get("carId"); s != "" {
		carID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		req.CarID = &carID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]string, 0, len(resp.FreeSlots))
	for _, slot := range resp.FreeSlots {
		slots = append(slots, slot.Format(time.RFC3339))
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date,
		ServiceID:   resp.ServiceID,
		SlotMinutes: resp.SlotMinutes,
		FreeSlots:   slots,
	}
}
