package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/model"
	"github.com/resto-ops/reportbot/internal/service"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fetchRange covers every populated column; the sheets are narrow.
const fetchRange = "A1:ZZ"

var (
	_ service.DataSource      = (*Client)(nil)
	_ service.ParameterSource = (*Client)(nil)
)

// Client reads the operational and parameter tables. One authenticated
// client is built at process start and reused for every fetch.
type Client struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewClient authenticates with the service account key and builds a
// read-only Sheets client.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	jsonKey, err := os.ReadFile(config.ServiceAccountPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account key file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account key: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		service: service,
		logger:  logger,
		config:  config,
	}, nil
}

// FetchOperational reads the first worksheet of the operational spreadsheet.
func (c *Client) FetchOperational(ctx context.Context) (model.Table, error) {
	return c.fetch(ctx, c.config.OperationalSheetID, fetchRange)
}

// FetchParameters reads the named worksheet of the management spreadsheet.
func (c *Client) FetchParameters(ctx context.Context) (model.Table, error) {
	rng := fmt.Sprintf("'%s'!%s", c.config.ParameterSheetName, fetchRange)
	return c.fetch(ctx, c.config.ParameterSheetID, rng)
}

func (c *Client) fetch(ctx context.Context, spreadsheetID, rng string) (model.Table, error) {
	var resp *sheets.ValueRange

	retryOpts := common.RetryOptions{
		MaxAttempts:  c.config.RetryAttempts,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		resp, fetchErr = c.service.Spreadsheets.Values.Get(spreadsheetID, rng).
			ValueRenderOption("FORMATTED_VALUE").
			Context(ctx).
			Do()
		return fetchErr
	}, retryOpts)
	if err != nil {
		return model.Table{}, fmt.Errorf("failed to fetch %s: %w", spreadsheetID, err)
	}

	table := tableFromValues(resp.Values)
	c.logger.Debug("fetched sheet",
		"spreadsheet_id", spreadsheetID,
		"columns", len(table.Columns),
		"rows", len(table.Rows))

	return table, nil
}

// tableFromValues converts the API's cell grid into a Table. The first row
// is the header; short rows are padded with empty cells, and header cells
// are trimmed since the sheet's authors are generous with whitespace.
func tableFromValues(values [][]any) model.Table {
	if len(values) == 0 {
		return model.Table{}
	}

	columns := make([]string, 0, len(values[0]))
	for _, cell := range values[0] {
		columns = append(columns, strings.TrimRight(fmt.Sprint(cell), " "))
	}

	table := model.Table{Columns: columns}
	for _, raw := range values[1:] {
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(raw) {
				row[col] = fmt.Sprint(raw[i])
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
