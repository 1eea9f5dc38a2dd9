package repository

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

//go:embed builtin_curriculum.yaml
var builtinCurriculum []byte

// defaultUnlockCodes are used for months whose source does not set a code.
var defaultUnlockCodes = map[int]string{
	1: "33",
	2: "44",
	3: "234",
	4: "1234",
	5: "676",
}

// CurriculumRepository provides read-only access to the five course months.
// Content is loaded once and never changes at runtime.
type CurriculumRepository struct {
	months [entities.MonthCount]*entities.Month
}

// NewCurriculumRepository loads the curriculum from path. An empty path selects
// the built-in course; otherwise the format is chosen by the file extension
// (.yaml, .yml or .xlsx).
func NewCurriculumRepository(path string) (*CurriculumRepository, error) {
	months, err := loadCurriculum(path)
	if err != nil {
		return nil, err
	}
	return newCurriculumRepository(months)
}

func newCurriculumRepository(months []entities.Month) (*CurriculumRepository, error) {
	r := &CurriculumRepository{}
	for i := range months {
		m := months[i]
		if !entities.IsValidMonth(m.Number) {
			return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidCurriculum, m.Number)
		}
		if r.months[m.Number-1] != nil {
			return nil, fmt.Errorf("%w: month %d defined twice", ErrInvalidCurriculum, m.Number)
		}
		if err := normalizeMonth(&m); err != nil {
			return nil, err
		}
		r.months[m.Number-1] = &m
	}

	for i, m := range r.months {
		if m == nil {
			return nil, fmt.Errorf("%w: month %d missing", ErrInvalidCurriculum, i+1)
		}
	}
	return r, nil
}

// Month returns a month by its number (1-5).
func (r *CurriculumRepository) Month(number int) (*entities.Month, error) {
	if !entities.IsValidMonth(number) {
		return nil, fmt.Errorf("month %d: %w", number, ErrContentUnavailable)
	}
	return r.months[number-1], nil
}

// Day returns the content of a learning day. Exam slots and unknown days have
// no content.
func (r *CurriculumRepository) Day(month, day int) (*entities.DayContent, error) {
	m, err := r.Month(month)
	if err != nil {
		return nil, err
	}

	d := m.Day(day)
	if d == nil || (len(d.Words) == 0 && len(d.Sentences) == 0) {
		return nil, fmt.Errorf("month %d day %d: %w", month, day, ErrContentUnavailable)
	}
	return d, nil
}

// UnlockCode returns the admin code of a month.
func (r *CurriculumRepository) UnlockCode(month int) (string, error) {
	m, err := r.Month(month)
	if err != nil {
		return "", err
	}
	return m.UnlockCode, nil
}

// Months returns all months in order.
func (r *CurriculumRepository) Months() []*entities.Month {
	return r.months[:]
}

type curriculumFile struct {
	Months []entities.Month `yaml:"months"`
}

func loadCurriculum(path string) ([]entities.Month, error) {
	if path == "" {
		return parseCurriculumYAML(builtinCurriculum)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read curriculum file: %w", err)
		}
		return parseCurriculumYAML(data)
	case ".xlsx":
		return loadCurriculumXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func parseCurriculumYAML(data []byte) ([]entities.Month, error) {
	var f curriculumFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshal curriculum: %w", err)
	}
	return f.Months, nil
}
