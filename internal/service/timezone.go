package service

import (
	"time"

	"team_chat/pkg/logger"
)

const displayTimeLayout = "2006-01-02 15:04:05"

// TimezoneService конвертирует UTC-время в зону получателя на краю
// системы. Вся внутренняя работа идёт в UTC; сюда попадает только
// форматирование для отображения.
type TimezoneService interface {
	// Format возвращает время в зоне пользователя. Неизвестная или
	// пустая зона молча заменяется на UTC.
	Format(t time.Time, timezone string) string
}

type timezoneService struct {
	log logger.Logger
}

func NewTimezoneService(log logger.Logger) TimezoneService {
	return &timezoneService{log: log}
}

func (s *timezoneService) Format(t time.Time, timezone string) string {
	loc := s.location(timezone)
	return t.In(loc).Format(displayTimeLayout)
}

func (s *timezoneService) location(timezone string) *time.Location {
	if timezone == "" {
		return time.UTC
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		s.log.Debug("Unknown timezone, falling back to UTC", "timezone", timezone)
		return time.UTC
	}
	return loc
}
