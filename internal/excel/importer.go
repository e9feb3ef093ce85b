package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/flashdrill/pkg/models"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// itemNamespace derives stable IDs for rows that carry none, so importing the
// same file twice updates items instead of duplicating them
var itemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/example/flashdrill/items"))

var errSkipRow = errors.New("skipping row")

// ItemStore receives imported items
type ItemStore interface {
	Upsert(items []models.Item) error
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	IDColumn      string // Column with the item ID, may be empty
	PromptColumn  string // Column with the prompt shown to the learner
	AnswerColumn  string // Column with the canonical answer
	ExampleColumn string // Column with the usage example
	TopicColumn   string // Column with the topic
	SheetName     string // Name of the sheet to import, empty for the first sheet
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		IDColumn:      "A",
		PromptColumn:  "B",
		AnswerColumn:  "C",
		ExampleColumn: "D",
		TopicColumn:   "E",
		StartRow:      2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportItems reads the catalog file and stores every valid row
func ImportItems(config ImportConfig, store ItemStore) (*ImportResult, error) {
	items, result, err := ReadItems(config)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return result, nil
	}
	if err := store.Upsert(items); err != nil {
		return nil, fmt.Errorf("failed to store items: %w", err)
	}
	result.Imported = len(items)
	return result, nil
}

// ReadItems parses an Excel or CSV file into catalog items in file order.
// Rows that cannot be used are counted as skipped and described in the
// result's Errors.
func ReadItems(config ImportConfig) ([]models.Item, *ImportResult, error) {
	// Check the file extension
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var rows [][]string
	var err error
	switch ext {
	case ".csv":
		rows, err = readCSV(config.FilePath)
	case ".xlsx", ".xlsm":
		rows, err = readExcel(config.FilePath, config.SheetName)
	default:
		return nil, nil, fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, nil, err
	}

	items, result := parseRows(rows, config)
	return items, result, nil
}

// readExcel returns the rows of a sheet
func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRows(rows [][]string, config ImportConfig) ([]models.Item, *ImportResult) {
	result := &ImportResult{Errors: make([]string, 0)}
	items := make([]models.Item, 0, len(rows))
	seen := make(map[string]int)

	for i, row := range rows {
		rowNum := i + 1
		// Skip header rows
		if rowNum < config.StartRow {
			continue
		}

		item, err := processRow(row, config)
		if errors.Is(err, errSkipRow) {
			continue
		}
		result.TotalProcessed++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if first, dup := seen[item.ID]; dup {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate id %q, first seen in row %d", rowNum, item.ID, first))
			continue
		}
		seen[item.ID] = rowNum
		items = append(items, item)
	}
	return items, result
}

// processRow builds an item from a single row
func processRow(row []string, config ImportConfig) (models.Item, error) {
	if isBlank(row) {
		return models.Item{}, errSkipRow
	}

	item := models.Item{
		ID:      cell(row, config.IDColumn),
		Prompt:  cell(row, config.PromptColumn),
		Answer:  cell(row, config.AnswerColumn),
		Example: cell(row, config.ExampleColumn),
		Topic:   cell(row, config.TopicColumn),
	}

	if item.Prompt == "" {
		return models.Item{}, fmt.Errorf("prompt cannot be empty")
	}
	if item.Answer == "" {
		return models.Item{}, fmt.Errorf("answer cannot be empty")
	}
	if item.ID == "" {
		item.ID = uuid.NewSHA1(itemNamespace, []byte(item.Prompt+"\x00"+item.Answer)).String()
	}
	return item, nil
}

// cell returns the trimmed value of a column, or "" when the column is unset
// or past the end of the row
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnToIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
