package sheets

import (
	"context"
	"fmt"
	"math"

	"github.com/page-confessions/confession-relay/src/moderation"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Row backgrounds carry the review state: white (the form's default) for
// unreviewed, gray for approved/posted, pale yellow for rejected. These
// mirror what the moderators' sheet has always used, so they are fixed.
var statusColors = map[moderation.Status]sheets.Color{
	moderation.StatusUnreviewed: {Red: 1, Green: 1, Blue: 1},
	moderation.StatusApproved:   {Red: 153.0 / 255, Green: 153.0 / 255, Blue: 153.0 / 255},
	moderation.StatusRejected:   {Red: 1, Green: 242.0 / 255, Blue: 204.0 / 255},
}

// colorTolerance absorbs float drift in the colors the API echoes back.
const colorTolerance = 1.0 / 512

type Config struct {
	CredentialsFile string
	SpreadsheetID   string
	SheetName       string // tab holding form responses
	SheetID         int64  // numeric grid id of that tab, used for writes
	PageSize        int    // rows per ReadRange call
}

// Client reads submission rows and paints decision colors back. It holds
// one authenticated Sheets service for the process lifetime.
type Client struct {
	svc *sheets.Service
	cfg Config
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, cfg: cfg}, nil
}

// ReadRange returns one page of submission rows starting at startRow
// (1-based), each with its text and decoded review status.
func (c *Client) ReadRange(ctx context.Context, startRow int) ([]moderation.Row, error) {
	if startRow < 1 {
		startRow = 1
	}
	rng := fmt.Sprintf("%s!B%d:B%d", c.cfg.SheetName, startRow, startRow+c.cfg.PageSize-1)

	resp, err := c.svc.Spreadsheets.Get(c.cfg.SpreadsheetID).
		Ranges(rng).
		Fields("sheets.data.rowData.values.formattedValue", "sheets.data.rowData.values.effectiveFormat.backgroundColor").
		IncludeGridData(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return nil, nil
	}

	var rows []moderation.Row
	for i, rd := range resp.Sheets[0].Data[0].RowData {
		if rd == nil || len(rd.Values) == 0 || rd.Values[0] == nil {
			continue
		}
		cell := rd.Values[0]
		if cell.FormattedValue == "" {
			continue
		}
		rows = append(rows, moderation.Row{
			Index:  startRow + i,
			Text:   cell.FormattedValue,
			Status: statusFromCell(cell),
		})
	}
	return rows, nil
}

// WriteStatus repaints rowIndex's background with the color for status.
func (c *Client) WriteStatus(ctx context.Context, rowIndex int, status moderation.Status) error {
	color, ok := statusColors[status]
	if !ok {
		return fmt.Errorf("no color mapped for status %s", status)
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          c.cfg.SheetID,
					StartRowIndex:    int64(rowIndex - 1), // grid is 0-based
					EndRowIndex:      int64(rowIndex),
					StartColumnIndex: 0,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{BackgroundColor: &color},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		}},
	}

	if _, err := c.svc.Spreadsheets.BatchUpdate(c.cfg.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("paint row %d %s: %w", rowIndex, status, err)
	}
	return nil
}

func statusFromCell(cell *sheets.CellData) moderation.Status {
	if cell.EffectiveFormat == nil || cell.EffectiveFormat.BackgroundColor == nil {
		// No explicit format reads as the sheet default, white.
		return moderation.StatusUnreviewed
	}
	return statusFromColor(cell.EffectiveFormat.BackgroundColor)
}

func statusFromColor(c *sheets.Color) moderation.Status {
	for status, want := range statusColors {
		if colorEq(c, want) {
			return status
		}
	}
	return moderation.StatusUnknown
}

func colorEq(got *sheets.Color, want sheets.Color) bool {
	return math.Abs(got.Red-want.Red) < colorTolerance &&
		math.Abs(got.Green-want.Green) < colorTolerance &&
		math.Abs(got.Blue-want.Blue) < colorTolerance
}
