package category

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/dmassey/grocery-prices/internal/model"
)

// LoadCSV reads the crawl input list: a header row followed by
// category_id,category_name pairs. Order is preserved; the crawler visits
// categories in file order.
func LoadCSV(path string) ([]model.Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open category file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read category file %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("category file %s has no data rows", path)
	}

	categories := make([]model.Category, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		id := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if id == "" {
			continue
		}
		categories = append(categories, model.Category{ID: id, Name: name})
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("category file %s contains no usable rows", path)
	}
	return categories, nil
}
