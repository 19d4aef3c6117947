package model

import "context"

// Email is a single outbound message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SheetReader reads cell values from a hosted spreadsheet.
type SheetReader interface {
	ReadRows(ctx context.Context, spreadsheetID, readRange string) ([][]string, error)
}
