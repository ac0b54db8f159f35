package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNotConfigured is returned when neither inline nor file credentials are set.
var ErrNotConfigured = errors.New("google sheets credentials not configured")

// NewSheetsService builds a read-only Sheets client. Inline JSON credentials win
// over the credentials file.
func NewSheetsService(ctx context.Context, credentialsJSON, credentialsFile string, logger *zap.Logger) (*sheets.Service, error) {
	var raw []byte

	switch {
	case credentialsJSON != "":
		logger.Debug("using google credentials from environment")
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		logger.Debug("using google credentials file", zap.String("path", credentialsFile))
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read google credentials file: %w", err)
		}
		raw = b
	default:
		return nil, ErrNotConfigured
	}

	credentials, err := google.CredentialsFromJSON(ctx, raw, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to load google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create google sheets client: %w", err)
	}

	return service, nil
}
