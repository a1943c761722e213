package sheetstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/semaphore"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ledgerline/ledgerline/internal/common"
)

// GoogleStore implements Store against the Google Sheets API. A weighted
// semaphore bounds how many blocking API calls run at once; callers still
// await each call before issuing the next, so transactions never pipeline.
type GoogleStore struct {
	service       *sheets.Service
	logger        *slog.Logger
	sem           *semaphore.Weighted
	sheetIDs      map[string]int64
	spreadsheetID string
	retry         common.RetryOptions
	mu            sync.Mutex
}

// NewGoogleStore creates a Google Sheets backed store.
func NewGoogleStore(ctx context.Context, config Config, logger *slog.Logger) (*GoogleStore, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleStore{
		service:       service,
		logger:        logger,
		sem:           semaphore.NewWeighted(config.MaxConcurrent),
		sheetIDs:      make(map[string]int64),
		spreadsheetID: config.SpreadsheetID,
		retry: common.RetryOptions{
			MaxAttempts:  config.RetryAttempts,
			InitialDelay: config.RetryDelay,
		},
	}, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = oauthConfig.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (g *GoogleStore) acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { g.sem.Release(1) }, nil
}

// call runs one API invocation under the concurrency gate with backoff on
// transient failures. Errors that survive the retries are store I/O failures.
func (g *GoogleStore) call(ctx context.Context, op func() error) error {
	release, err := g.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := common.WithRetry(ctx, op, g.retry); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStoreIO, err)
	}
	return nil
}

func qualify(sheet, a1Range string) string {
	return fmt.Sprintf("'%s'!%s", sheet, a1Range)
}

// Read implements Store.
func (g *GoogleStore) Read(ctx context.Context, sheet, a1Range string) ([][]any, error) {
	return g.read(ctx, sheet, a1Range, "UNFORMATTED_VALUE")
}

// ReadFormulas implements Store.
func (g *GoogleStore) ReadFormulas(ctx context.Context, sheet, a1Range string) ([][]any, error) {
	return g.read(ctx, sheet, a1Range, "FORMULA")
}

func (g *GoogleStore) read(ctx context.Context, sheet, a1Range, renderOption string) ([][]any, error) {
	var values [][]any
	err := g.call(ctx, func() error {
		resp, err := g.service.Spreadsheets.Values.Get(g.spreadsheetID, qualify(sheet, a1Range)).
			ValueRenderOption(renderOption).
			DateTimeRenderOption("FORMATTED_STRING").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s!%s: %w", sheet, a1Range, err)
	}
	return values, nil
}

// Write implements Store.
func (g *GoogleStore) Write(ctx context.Context, sheet, a1Range string, values [][]any) error {
	err := g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.Values.Update(g.spreadsheetID, qualify(sheet, a1Range),
			&sheets.ValueRange{Values: values}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("writing %s!%s: %w", sheet, a1Range, err)
	}

	g.logger.Debug("wrote range", "sheet", sheet, "range", a1Range)
	return nil
}

// BatchWrite implements Store.
func (g *GoogleStore) BatchWrite(ctx context.Context, sheet string, updates []RangeUpdate) error {
	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, update := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  qualify(sheet, update.Range),
			Values: update.Values,
		})
	}

	err := g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.Values.BatchUpdate(g.spreadsheetID,
			&sheets.BatchUpdateValuesRequest{
				ValueInputOption: "USER_ENTERED",
				Data:             data,
			}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("batch writing %d ranges to %s: %w", len(updates), sheet, err)
	}

	g.logger.Debug("batch wrote ranges", "sheet", sheet, "ranges", len(updates))
	return nil
}

// Clear implements Store.
func (g *GoogleStore) Clear(ctx context.Context, sheet, a1Range string) error {
	err := g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.Values.Clear(g.spreadsheetID, qualify(sheet, a1Range),
			&sheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("clearing %s!%s: %w", sheet, a1Range, err)
	}
	return nil
}

// InsertRow implements Store. The new row inherits formatting and formula
// content from the row it is inserted after, so tables whose trailing rows
// carry live formulas grow without breaking them.
func (g *GoogleStore) InsertRow(ctx context.Context, sheet string, afterRow int) error {
	sheetID, err := g.SheetID(ctx, sheet)
	if err != nil {
		return err
	}

	requests := []*sheets.Request{
		{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(afterRow),
					EndIndex:   int64(afterRow + 1),
				},
				InheritFromBefore: true,
			},
		},
		{
			CopyPaste: &sheets.CopyPasteRequest{
				Source: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(afterRow - 1),
					EndRowIndex:      int64(afterRow),
					StartColumnIndex: 0,
					EndColumnIndex:   26,
				},
				Destination: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(afterRow),
					EndRowIndex:      int64(afterRow + 1),
					StartColumnIndex: 0,
					EndColumnIndex:   26,
				},
				PasteType:        "PASTE_NORMAL",
				PasteOrientation: "NORMAL",
			},
		},
	}

	err = g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting row after %d in %s: %w", afterRow, sheet, err)
	}

	g.logger.Debug("inserted row", "sheet", sheet, "after_row", afterRow)
	return nil
}

// DeleteRow implements Store.
func (g *GoogleStore) DeleteRow(ctx context.Context, sheet string, row int) error {
	sheetID, err := g.SheetID(ctx, sheet)
	if err != nil {
		return err
	}

	err = g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					DeleteDimension: &sheets.DeleteDimensionRequest{
						Range: &sheets.DimensionRange{
							SheetId:    sheetID,
							Dimension:  "ROWS",
							StartIndex: int64(row - 1),
							EndIndex:   int64(row),
						},
					},
				}},
			}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting row %d from %s: %w", row, sheet, err)
	}

	g.logger.Debug("deleted row", "sheet", sheet, "row", row)
	return nil
}

// SheetID implements Store, caching resolved identifiers.
func (g *GoogleStore) SheetID(ctx context.Context, sheet string) (int64, error) {
	g.mu.Lock()
	if id, ok := g.sheetIDs[sheet]; ok {
		g.mu.Unlock()
		return id, nil
	}
	g.mu.Unlock()

	var resp *sheets.Spreadsheet
	err := g.call(ctx, func() error {
		var err error
		resp, err = g.service.Spreadsheets.Get(g.spreadsheetID).
			Fields("sheets.properties").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("resolving sheet id for %s: %w", sheet, err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, s := range resp.Sheets {
		if s.Properties != nil {
			g.sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}
	if id, ok := g.sheetIDs[sheet]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("%w: %s", common.ErrSheetAbsent, sheet)
}

// SetCellStyle implements Store. Hidden styles render the text in the
// background color so identifier cells stay out of the human-facing view.
func (g *GoogleStore) SetCellStyle(ctx context.Context, sheet string, row, startCol, endCol int, style CellStyle) error {
	sheetID, err := g.SheetID(ctx, sheet)
	if err != nil {
		return err
	}

	var shade float64
	if style.Hidden {
		shade = 1 // match the white background
	}

	request := &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    int64(row - 1),
				EndRowIndex:      int64(row),
				StartColumnIndex: int64(startCol),
				EndColumnIndex:   int64(endCol + 1),
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{
						FontFamily: style.FontFamily,
						FontSize:   style.FontSize,
						ForegroundColor: &sheets.Color{
							Red:   shade,
							Green: shade,
							Blue:  shade,
						},
					},
				},
			},
			Fields: "userEnteredFormat.textFormat",
		},
	}

	err = g.call(ctx, func() error {
		_, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID,
			&sheets.BatchUpdateSpreadsheetRequest{Requests: []*sheets.Request{request}}).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("styling %s row %d: %w", sheet, row, err)
	}
	return nil
}
