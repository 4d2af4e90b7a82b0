package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/vuongtx/thuchi-bot/internal/common"
	"github.com/vuongtx/thuchi-bot/internal/model"
	"github.com/vuongtx/thuchi-bot/internal/service"
)

// rowTimeFormat is the timestamp layout stored in ledger rows.
const rowTimeFormat = "02/01/2006 15:04:05"

// headerRow is written as the first row of every user worksheet. The
// column order is part of the sheet contract; List assumes it.
var headerRow = []any{"Ngày", "Loại", "Số tiền", "Danh mục", "Ghi chú"}

// Ledger implements service.Ledger on top of a Google spreadsheet with
// one worksheet per user.
type Ledger struct {
	service       *sheets.Service
	logger        *slog.Logger
	knownSheets   map[string]bool
	config        Config
	spreadsheetID string
	mu            sync.Mutex
}

// NewLedger creates a Google Sheets backed ledger.
func NewLedger(ctx context.Context, config Config, logger *slog.Logger) (*Ledger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	l := &Ledger{
		config:      config,
		service:     srv,
		logger:      logger,
		knownSheets: make(map[string]bool),
	}

	if err := l.resolveSpreadsheet(ctx); err != nil {
		return nil, err
	}

	return l, nil
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

// resolveSpreadsheet verifies the configured spreadsheet, or creates a
// new one when no ID was provided.
func (l *Ledger) resolveSpreadsheet(ctx context.Context) error {
	if l.config.SpreadsheetID != "" {
		ss, err := l.service.Spreadsheets.Get(l.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%w: unable to access spreadsheet %s: %v", common.ErrStoreAccess, l.config.SpreadsheetID, err)
		}
		l.spreadsheetID = l.config.SpreadsheetID
		for _, sh := range ss.Sheets {
			l.knownSheets[sh.Properties.Title] = true
		}
		return nil
	}

	created, err := l.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    l.config.SpreadsheetName,
			TimeZone: l.config.TimeZone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: unable to create spreadsheet: %v", common.ErrStoreAccess, err)
	}

	l.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	l.spreadsheetID = created.SpreadsheetId
	return nil
}

// Append writes one transaction row to the user's worksheet, creating
// the worksheet with its header on first use.
func (l *Ledger) Append(ctx context.Context, user string, record model.TransactionRecord) error {
	sheetName := worksheetName(user)
	if err := l.ensureWorksheet(ctx, sheetName); err != nil {
		return err
	}

	row := []any{
		record.Timestamp.Format(rowTimeFormat),
		string(record.Direction),
		record.Amount,
		record.Category,
		record.Note,
	}

	err := common.WithRetry(ctx, func() error {
		_, appendErr := l.service.Spreadsheets.Values.Append(
			l.spreadsheetID,
			fmt.Sprintf("'%s'!A:E", sheetName),
			&sheets.ValueRange{Values: [][]any{row}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if appendErr != nil {
			return &common.RetryableError{Err: appendErr, Retryable: true}
		}
		return nil
	}, l.retryOptions())
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}

	l.logger.Info("transaction recorded",
		"user", user,
		"direction", record.Direction,
		"amount", record.Amount,
		"category", record.Category)

	return nil
}

// List returns the user's transactions within [start, end]. Rows with
// unparseable dates or amounts are skipped with a warning.
func (l *Ledger) List(ctx context.Context, user string, start, end time.Time) ([]model.TransactionRecord, error) {
	sheetName := worksheetName(user)

	l.mu.Lock()
	known := l.knownSheets[sheetName]
	l.mu.Unlock()
	if !known {
		if exists, err := l.worksheetExists(ctx, sheetName); err != nil {
			return nil, err
		} else if !exists {
			return nil, nil
		}
	}

	resp, err := l.service.Spreadsheets.Values.Get(
		l.spreadsheetID,
		fmt.Sprintf("'%s'!A2:E", sheetName),
	).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}

	records := make([]model.TransactionRecord, 0, len(resp.Values))
	for i, row := range resp.Values {
		record, ok := l.parseRow(row, user, i+2)
		if !ok {
			continue
		}
		if record.Timestamp.Before(start) || record.Timestamp.After(end) {
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// parseRow converts a sheet row back into a transaction record.
func (l *Ledger) parseRow(row []any, user string, rowNum int) (model.TransactionRecord, bool) {
	if len(row) < 4 {
		l.logger.Warn("skipping short ledger row", "user", user, "row", rowNum)
		return model.TransactionRecord{}, false
	}

	timestamp, err := time.ParseInLocation(rowTimeFormat, cellString(row[0]), time.Local)
	if err != nil {
		l.logger.Warn("skipping ledger row with bad date",
			"user", user, "row", rowNum, "value", cellString(row[0]))
		return model.TransactionRecord{}, false
	}

	amount, err := cellAmount(row[2])
	if err != nil {
		l.logger.Warn("skipping ledger row with bad amount",
			"user", user, "row", rowNum, "value", cellString(row[2]))
		return model.TransactionRecord{}, false
	}

	record := model.TransactionRecord{
		Timestamp: timestamp,
		Direction: model.Direction(cellString(row[1])),
		Amount:    amount,
		Category:  cellString(row[3]),
		User:      user,
	}
	if len(row) > 4 {
		record.Note = cellString(row[4])
	}

	return record, true
}

// Categories returns the distinct categories the user has recorded,
// per direction. A user with no records yet gets the default taxonomy
// so the listing is never empty.
func (l *Ledger) Categories(ctx context.Context, user string) (service.CategorySet, error) {
	records, err := l.List(ctx, user, time.Time{}, time.Now().AddDate(100, 0, 0))
	if err != nil {
		return service.CategorySet{}, err
	}

	set := collectCategories(records)
	if len(set.Income) == 0 && len(set.Expense) == 0 {
		return service.CategorySet{
			Expense: model.ExpenseCategories,
			Income:  model.IncomeCategories,
		}, nil
	}

	return set, nil
}

// collectCategories reduces records to the distinct category names seen
// per direction, sorted for stable rendering.
func collectCategories(records []model.TransactionRecord) service.CategorySet {
	income := make(map[string]bool)
	expense := make(map[string]bool)
	for _, record := range records {
		if record.Category == "" {
			continue
		}
		switch record.Direction {
		case model.DirectionIncome:
			income[record.Category] = true
		case model.DirectionExpense:
			expense[record.Category] = true
		}
	}

	var set service.CategorySet
	for name := range income {
		set.Income = append(set.Income, name)
	}
	for name := range expense {
		set.Expense = append(set.Expense, name)
	}
	sort.Strings(set.Income)
	sort.Strings(set.Expense)
	return set
}

// SheetURL returns a browser link to the backing spreadsheet.
func (l *Ledger) SheetURL(_ string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", l.spreadsheetID)
}

// ensureWorksheet creates the user's worksheet with its header row if
// it does not exist yet.
func (l *Ledger) ensureWorksheet(ctx context.Context, sheetName string) error {
	l.mu.Lock()
	if l.knownSheets[sheetName] {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	exists, err := l.worksheetExists(ctx, sheetName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = l.service.Spreadsheets.BatchUpdate(l.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: unable to add worksheet %s: %v", common.ErrStoreWrite, sheetName, err)
	}

	_, err = l.service.Spreadsheets.Values.Update(
		l.spreadsheetID,
		fmt.Sprintf("'%s'!A1:E1", sheetName),
		&sheets.ValueRange{Values: [][]any{headerRow}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: unable to write header for %s: %v", common.ErrStoreWrite, sheetName, err)
	}

	l.logger.Info("created user worksheet", "sheet", sheetName)

	l.mu.Lock()
	l.knownSheets[sheetName] = true
	l.mu.Unlock()

	return nil
}

// worksheetExists refreshes the known-sheet cache from the API.
func (l *Ledger) worksheetExists(ctx context.Context, sheetName string) (bool, error) {
	ss, err := l.service.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStoreAccess, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for _, sh := range ss.Sheets {
		l.knownSheets[sh.Properties.Title] = true
		if sh.Properties.Title == sheetName {
			found = true
		}
	}
	return found, nil
}

func (l *Ledger) retryOptions() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  l.config.RetryAttempts,
		InitialDelay: l.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// worksheetName derives a sheet title from a user identifier. Sheet
// titles cannot contain some punctuation, so those are replaced.
func worksheetName(user string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '_'
		}
		return r
	}, strings.TrimSpace(user))
	if name == "" {
		name = "unknown"
	}
	// Sheet titles max out at 100 characters.
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}

func cellString(cell any) string {
	return strings.TrimSpace(fmt.Sprintf("%v", cell))
}

// cellAmount parses an amount cell, tolerating thousand separators the
// sheet UI may have added.
func cellAmount(cell any) (int64, error) {
	switch v := cell.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	}
	s := cellString(cell)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.TrimSpace(strings.TrimSuffix(s, "VNĐ"))
	return strconv.ParseInt(s, 10, 64)
}
