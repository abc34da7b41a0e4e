// Package google mirrors the ledger journal into a Google Sheets
// spreadsheet.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"kassa/internal/core"
	ports "kassa/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.JournalWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID.
// Auth: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, an OAuth
// client with a token file from cmd/oauth-init, or ADC.
// Optional: GOOGLE_SHEET_NAME (default "Journal").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Journal"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return New(svc, spreadsheetID, sheetName), nil
}

func New(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if json := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); json != "" {
		return gsheet.NewService(ctx, goption.WithCredentialsJSON([]byte(json)))
	}
	if file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")); file != "" {
		return gsheet.NewService(ctx, goption.WithCredentialsFile(file))
	}
	if svc, ok, err := oauthSheetsService(ctx); ok {
		return svc, err
	}
	// Fall back to Application Default Credentials.
	return gsheet.NewService(ctx)
}

// oauthSheetsService builds a service from an OAuth client plus a stored
// user token, as produced by cmd/oauth-init. Reports ok=false when the
// OAuth env vars are not set.
func oauthSheetsService(ctx context.Context) (*gsheet.Service, bool, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))
	if (clientJSON == "" && clientFile == "") || tokenFile == "" {
		return nil, false, nil
	}

	b := []byte(clientJSON)
	if clientJSON == "" {
		var err error
		b, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, true, fmt.Errorf("read oauth client file: %w", err)
		}
	}

	cfg, err := goauth.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, true, fmt.Errorf("parse oauth client: %w", err)
	}

	tb, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, true, fmt.Errorf("read oauth token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(tb, &tok); err != nil {
		return nil, true, fmt.Errorf("parse oauth token: %w", err)
	}

	svc, err := gsheet.NewService(ctx, goption.WithTokenSource(cfg.TokenSource(ctx, &tok)))
	return svc, true, err
}

// AppendEntry appends one journal row:
// id, date, type, category, amount, description, member id, created by.
func (c *Client) AppendEntry(ctx context.Context, t core.Transaction) error {
	row := []interface{}{
		t.ID,
		t.Date,
		string(t.Type),
		t.Category,
		t.Amount,
		t.Description,
		t.MemberID,
		t.CreatedBy,
	}

	vr := &gsheet.ValueRange{Values: [][]interface{}{row}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheetName+"!A:H", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append journal row: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored journal entry",
		"id", t.ID, "sheet", c.sheetName)
	return nil
}

// RemoveEntry clears the row whose first cell equals id. Rows are looked up
// by scanning column A; the mirror stays small enough for that.
func (c *Client) RemoveEntry(ctx context.Context, id string) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.sheetName+"!A:A").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("read journal ids: %w", err)
	}

	rowIndex := -1
	for i, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			rowIndex = i
			break
		}
	}
	if rowIndex < 0 {
		// Already gone; removal is idempotent.
		slog.WarnContext(ctx, "Journal entry not found in mirror", "id", id)
		return nil
	}

	rangeRef := c.sheetName + "!A" + strconv.Itoa(rowIndex+1) + ":H" + strconv.Itoa(rowIndex+1)
	_, err = c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, rangeRef, &gsheet.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("clear journal row: %w", err)
	}

	slog.InfoContext(ctx, "Cleared mirrored journal entry",
		"id", id, "range", rangeRef)
	return nil
}
