// Package gsheet reads CGPA rows from Google Sheets.
package gsheet

import (
	"context"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dtroode/tap-portal-server/internal/model"
)

// DefaultRange covers the columns a grade sheet uses.
const DefaultRange = "A:Z"

var spreadsheetURLPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error)
}

type valuesService struct {
	svc *sheets.SpreadsheetsValuesService
}

func (v valuesService) Get(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error) {
	return v.svc.Get(spreadsheetID, readRange).Context(ctx).Do()
}

var _ model.SheetReader = (*Client)(nil)

type Client struct {
	values valuesAPI
}

// NewClient authenticates with a service account credentials file.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewClientWithAPI(valuesService{svc: service.Spreadsheets.Values}), nil
}

// NewClientWithAPI allows injecting a mockable API (used in tests).
func NewClientWithAPI(values valuesAPI) *Client {
	return &Client{values: values}
}

// ReadRows returns the range as strings. spreadsheetID may also be a full sheet URL.
func (c *Client) ReadRows(ctx context.Context, spreadsheetID, readRange string) ([][]string, error) {
	id := SpreadsheetID(spreadsheetID)
	if readRange == "" {
		readRange = DefaultRange
	}

	resp, err := c.values.Get(ctx, id, readRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", id, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = fmt.Sprint(cell)
		}
		rows = append(rows, record)
	}

	return rows, nil
}

// SpreadsheetID extracts the id from a sheet URL, returning other input unchanged.
func SpreadsheetID(s string) string {
	if m := spreadsheetURLPattern.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
