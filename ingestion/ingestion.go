package ingestion

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"chapterquiz-server/models"
	"chapterquiz-server/utils"
)

const (
	chapterFileName     = "chapter.yaml"
	submissionsFileName = "submissions.csv"
	importedSuffix      = ".imported"
	csvColumnCount      = models.QuestionCount + 5 // q1..q13, c1..c5
)

// ErrInvalid marks problems with the files themselves, as opposed to I/O or
// storage failures.
var ErrInvalid = errors.New("invalid ingestion data")

// Importer stores parsed rows as bulk submissions.
type Importer interface {
	ImportSubmissions(ctx context.Context, chapter, school string, items []models.Answers) (int, error)
}

// LineError reports a validation failure at a CSV line (1-based, header is
// line 1).
type LineError struct {
	File    string
	Line    int
	Field   string
	Message string
}

func (e *LineError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s line %d, field %s: %s", e.File, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s line %d: %s", e.File, e.Line, e.Message)
}

func (e *LineError) Unwrap() error { return ErrInvalid }

// ExpectedHeader is the submissions.csv header row.
func ExpectedHeader() []string {
	header := make([]string, 0, csvColumnCount)
	for q := 1; q <= models.QuestionCount; q++ {
		header = append(header, fmt.Sprintf("q%d", q))
	}
	for c := 1; c <= 5; c++ {
		header = append(header, fmt.Sprintf("c%d", c))
	}
	return header
}

// ProcessChapterData reads <root>/<chapter>/chapter.yaml and submissions.csv,
// validates every row and imports them in one bulk write. The CSV is renamed
// afterwards so it is not imported again.
func ProcessChapterData(ctx context.Context, imp Importer, chapter, root string) (int, error) {
	chapterPath := filepath.Join(root, chapter)
	chapterYAMLPath := filepath.Join(chapterPath, chapterFileName)
	csvPath := filepath.Join(chapterPath, submissionsFileName)

	// 1. Read chapter.yaml
	raw, err := os.ReadFile(chapterYAMLPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s for %s: %w", chapterFileName, chapter, err)
	}
	var meta models.ChapterYAML
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return 0, fmt.Errorf("%w: failed to parse %s for %s: %v", ErrInvalid, chapterFileName, chapter, err)
	}
	if meta.Chapter != chapter {
		return 0, fmt.Errorf("%w: chapter in %s (%s) must match directory name (%s)", ErrInvalid, chapterFileName, meta.Chapter, chapter)
	}
	if strings.TrimSpace(meta.School) == "" {
		return 0, fmt.Errorf("%w: %s for %s has no school", ErrInvalid, chapterFileName, chapter)
	}

	// 2. Read submissions.csv
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for %s: %w", submissionsFileName, chapter, err)
	}
	items, err := ParseSubmissions(csvFile, submissionsFileName)
	csvFile.Close()
	if err != nil {
		return 0, err
	}

	// 3. Store and mark as imported
	n, err := imp.ImportSubmissions(ctx, meta.Chapter, meta.School, items)
	if err != nil {
		return 0, fmt.Errorf("failed to import submissions for %s: %w", chapter, err)
	}
	if err := os.Rename(csvPath, csvPath+importedSuffix); err != nil {
		return n, fmt.Errorf("imported %d rows for %s but could not rename %s: %w", n, chapter, submissionsFileName, err)
	}
	log.Printf("Ingested %d submissions for chapter %s", n, chapter)
	return n, nil
}

// ParseSubmissions parses a submissions CSV. Each q cell is a |-separated 0/1
// ride sequence (possibly empty); each c cell is an integer (empty means 0).
func ParseSubmissions(r io.Reader, fileName string) ([]models.Answers, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalid, fileName, err)
	}
	if len(rows) < 2 { // header + at least one submission
		return nil, &LineError{File: fileName, Line: len(rows) + 1, Message: "expected a header row and at least one submission row"}
	}

	expected := ExpectedHeader()
	header := rows[0]
	if len(header) != csvColumnCount {
		return nil, &LineError{File: fileName, Line: 1, Message: fmt.Sprintf("expected %d columns, got %d", csvColumnCount, len(header))}
	}
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(name), expected[i]) {
			return nil, &LineError{File: fileName, Line: 1, Field: expected[i], Message: fmt.Sprintf("unexpected header '%s'", name)}
		}
	}

	items := make([]models.Answers, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) != csvColumnCount {
			return nil, &LineError{File: fileName, Line: line, Message: fmt.Sprintf("expected %d columns, got %d", csvColumnCount, len(row))}
		}
		item, err := parseRow(row, fileName, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRow(row []string, fileName string, line int) (models.Answers, error) {
	var seqs [models.QuestionCount][]int
	for q := 0; q < models.QuestionCount; q++ {
		seq, err := utils.ParseRideSequence(row[q])
		if err != nil {
			return models.Answers{}, &LineError{File: fileName, Line: line, Field: fmt.Sprintf("q%d", q+1), Message: err.Error()}
		}
		seqs[q] = seq
	}
	var counts [5]int
	for c := 0; c < 5; c++ {
		cell := strings.TrimSpace(row[models.QuestionCount+c])
		if cell == "" {
			continue
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			return models.Answers{}, &LineError{File: fileName, Line: line, Field: fmt.Sprintf("c%d", c+1), Message: fmt.Sprintf("invalid integer '%s'", cell)}
		}
		counts[c] = v
	}
	return models.Answers{
		Q1: seqs[0], Q2: seqs[1], Q3: seqs[2], Q4: seqs[3], Q5: seqs[4],
		Q6: seqs[5], Q7: seqs[6], Q8: seqs[7], Q9: seqs[8], Q10: seqs[9],
		Q11: seqs[10], Q12: seqs[11], Q13: seqs[12],
		C1: counts[0], C2: counts[1], C3: counts[2], C4: counts[3], C5: counts[4],
	}, nil
}

// PendingChapters lists the chapter directories under root that hold a
// submissions.csv not yet imported. A missing root has no pending chapters.
func PendingChapters(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion root %s: %w", root, err)
	}
	var chapters []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, entry.Name(), submissionsFileName)); err == nil {
			chapters = append(chapters, entry.Name())
		}
	}
	sort.Strings(chapters)
	return chapters, nil
}

// ResultFunc is told the outcome of each chapter ProcessPending attempts.
type ResultFunc func(chapter string, imported int, err error)

// ProcessPending ingests every pending chapter, logging failures and moving
// on. It returns the number of submissions imported per chapter. report may
// be nil.
func ProcessPending(ctx context.Context, imp Importer, root string, report ResultFunc) map[string]int {
	imported := make(map[string]int)
	chapters, err := PendingChapters(root)
	if err != nil {
		log.Printf("Error listing pending chapters: %v", err)
		return imported
	}
	for _, chapter := range chapters {
		n, err := ProcessChapterData(ctx, imp, chapter, root)
		if report != nil {
			report(chapter, n, err)
		}
		if err != nil {
			log.Printf("Error during scheduled ingestion for %s: %v", chapter, err)
			continue
		}
		imported[chapter] = n
	}
	return imported
}
