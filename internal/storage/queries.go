package storage

import "tgfilebot/backend/internal/models"

// RecordSearch appends one audit row. Audit rows are write-once; nothing
// in the system updates or deletes them.
func (s *Service) RecordSearch(q *models.SearchQuery) error {
	return s.DB.Create(q).Error
}

func (s *Service) CountSearches() (int64, error) {
	var n int64
	err := s.DB.Model(&models.SearchQuery{}).Count(&n).Error
	return n, err
}
