package storage

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tgfilebot/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateFile(f *models.TgFile) error {
	return s.DB.Create(f).Error
}

func (s *Service) GetFileByID(id uint) (*models.TgFile, error) {
	var f models.TgFile
	err := s.DB.First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFilesByIDs loads the given files preserving the input order, which
// carries the search ranking.
func (s *Service) GetFilesByIDs(ids []uint) ([]models.TgFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var files []models.TgFile
	if err := s.DB.Where("id IN ?", ids).Find(&files).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.TgFile, len(files))
	for _, f := range files {
		byID[f.ID] = f
	}
	ordered := make([]models.TgFile, 0, len(files))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
		}
	}
	return ordered, nil
}

func (s *Service) CountFiles() (int64, error) {
	var n int64
	err := s.DB.Model(&models.TgFile{}).Count(&n).Error
	return n, err
}

// Field weights of the ranked file search. Title dominates, then the
// file name; extracted content only participates in deep mode.
const (
	weightTitle       = 5
	weightFileName    = 4
	weightContent     = 3
	weightDescription = 1
)

// SearchFileIDs runs the weighted token-contains query behind the search
// engine adapter. Every token must match at least one searched field;
// rows are ordered by the summed field weights and, for equal scores, by
// newest id first, so identical input always yields an identical ranking.
func (s *Service) SearchFileIDs(ctx context.Context, tokens []string, deep bool) ([]uint, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	fields := []struct {
		column string
		weight int
	}{
		{"title", weightTitle},
		{"file_name", weightFileName},
		{"description", weightDescription},
	}
	if deep {
		fields = append(fields, struct {
			column string
			weight int
		}{"content", weightContent})
	}

	var (
		conds     []string
		scores    []string
		condArgs  []interface{}
		scoreArgs []interface{}
	)
	for _, token := range tokens {
		pattern := "%" + escapeLike(token) + "%"

		var fieldConds []string
		for _, f := range fields {
			fieldConds = append(fieldConds, f.column+" ILIKE ?")
			scores = append(scores, "(CASE WHEN "+f.column+" ILIKE ? THEN "+strconv.Itoa(f.weight)+" ELSE 0 END)")
			condArgs = append(condArgs, pattern)
			scoreArgs = append(scoreArgs, pattern)
		}
		conds = append(conds, "("+strings.Join(fieldConds, " OR ")+")")
	}

	// Placeholder order in the statement is all WHERE patterns first,
	// then all ORDER BY patterns.
	sql := "SELECT id FROM tg_files WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY " + strings.Join(scores, " + ") + " DESC, id DESC"

	var ids []uint
	if err := s.DB.WithContext(ctx).Raw(sql, append(condArgs, scoreArgs...)...).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
