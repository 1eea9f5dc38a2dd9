package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// Workbook layout. Every sheet has a header row.
//
//	months:    month | title | level | unlock_code
//	words:     month | day | id | english | translation | pronunciation | example | example_translation
//	sentences: month | day | id | english | translation | words (space separated)
const (
	sheetMonths    = "months"
	sheetWords     = "words"
	sheetSentences = "sentences"
)

func loadCurriculumXLSX(path string) ([]entities.Month, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open curriculum workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readCurriculumWorkbook(f)
}

func readCurriculumWorkbook(f *excelize.File) ([]entities.Month, error) {
	monthRows, err := sheetRows(f, sheetMonths)
	if err != nil {
		return nil, err
	}

	months := make([]entities.Month, 0, len(monthRows))
	index := make(map[int]int, len(monthRows))
	for i, row := range monthRows {
		n, err := cellInt(row, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrInvalidCurriculum, sheetMonths, i+2, err)
		}
		index[n] = len(months)
		months = append(months, entities.Month{
			Number:     n,
			Title:      cell(row, 1),
			Level:      cell(row, 2),
			UnlockCode: cell(row, 3),
		})
	}

	// day returns the day record for (month, day), creating it on first use.
	day := func(sheet string, row []string, line int) (*entities.DayContent, error) {
		mn, err := cellInt(row, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrInvalidCurriculum, sheet, line, err)
		}
		dn, err := cellInt(row, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", ErrInvalidCurriculum, sheet, line, err)
		}
		mi, ok := index[mn]
		if !ok {
			return nil, fmt.Errorf("%w: %s row %d: unknown month %d", ErrInvalidCurriculum, sheet, line, mn)
		}
		m := &months[mi]
		if d := m.Day(dn); d != nil {
			return d, nil
		}
		m.Days = append(m.Days, entities.DayContent{Day: dn})
		return &m.Days[len(m.Days)-1], nil
	}

	wordRows, err := sheetRows(f, sheetWords)
	if err != nil {
		return nil, err
	}
	for i, row := range wordRows {
		d, err := day(sheetWords, row, i+2)
		if err != nil {
			return nil, err
		}
		d.Words = append(d.Words, entities.Word{
			ID:            cell(row, 2),
			English:       cell(row, 3),
			Translation:   cell(row, 4),
			Pronunciation: cell(row, 5),
			Example:       cell(row, 6),
			ExampleTrans:  cell(row, 7),
		})
	}

	sentenceRows, err := sheetRows(f, sheetSentences)
	if err != nil {
		return nil, err
	}
	for i, row := range sentenceRows {
		d, err := day(sheetSentences, row, i+2)
		if err != nil {
			return nil, err
		}
		d.Sentences = append(d.Sentences, entities.Sentence{
			ID:          cell(row, 2),
			English:     cell(row, 3),
			Translation: cell(row, 4),
			Words:       strings.Fields(cell(row, 5)),
		})
	}

	return months, nil
}

// sheetRows returns the non-empty rows of a sheet without its header.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func cellInt(row []string, i int) (int, error) {
	v := cell(row, i)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("column %d: %q is not a number", i+1, v)
	}
	return n, nil
}
