package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jimezsa/rentcli/internal/models"
)

// ReadQuotes reads a JSON array of quotes from path.
func ReadQuotes(path string) ([]models.Quote, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []models.Quote{}, nil
	}

	var quotes []models.Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, err
	}
	if quotes == nil {
		return []models.Quote{}, nil
	}
	return quotes, nil
}

// ReadQuotesAllowMissing reads quotes and treats missing files as empty history.
func ReadQuotesAllowMissing(path string) ([]models.Quote, error) {
	quotes, err := ReadQuotes(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Quote{}, nil
		}
		return nil, err
	}
	return quotes, nil
}

// WriteQuotes writes quotes as pretty JSON.
func WriteQuotes(path string, quotes []models.Quote) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	if quotes == nil {
		quotes = []models.Quote{}
	}
	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
