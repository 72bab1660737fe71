package googlefinance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// The remote source is a spreadsheet cell holding a GoogleFinance
// formula. Writing the formula starts an asynchronous computation;
// once it finishes, the cell region materializes into a Date/Close
// table whose header cell reads "Date". Only one query may be in
// flight at a time - callers must serialize access to the slot.

// ErrTimeout is returned when the formula never materializes within
// the client's timeout window. The query slot is cleared before
// returning so the next caller starts from an empty cell.
var ErrTimeout = errors.New("googlefinance: timed out waiting for query result")

// ErrInvalidRange is returned without contacting the remote source.
var ErrInvalidRange = errors.New("googlefinance: from date is after to date")

const (
	querySlotCell    = "A1"
	completionMarker = "Date"

	defaultPollInterval = 100 * time.Millisecond
	defaultTimeout      = 5 * time.Second
)

// Quote is one daily close returned by the remote source.
type Quote struct {
	Date  time.Time
	Close float64
}

// CellTransport abstracts the spreadsheet holding the query slot so
// tests can simulate slow or never-completing queries.
type CellTransport interface {
	UpdateCell(ctx context.Context, cell string, value string) error
	ReadCell(ctx context.Context, cell string) (string, error)
	ReadTable(ctx context.Context) ([][]string, error)
}

// Clock abstracts wall-clock time for the polling loop.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

type Client struct {
	transport    CellTransport
	clock        Clock
	pollInterval time.Duration
	timeout      time.Duration
}

type Option func(*Client)

func WithClock(c Clock) Option {
	return func(cl *Client) { cl.clock = c }
}

func WithPollInterval(d time.Duration) Option {
	return func(cl *Client) { cl.pollInterval = d }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

func NewClient(transport CellTransport, opts ...Option) *Client {
	c := &Client{
		transport:    transport,
		clock:        realClock{},
		pollInterval: defaultPollInterval,
		timeout:      defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the daily closes for searchTerm over the inclusive
// [from, to] range. A zero to defaults to today. On timeout or
// transport failure the query slot is cleared and an empty series is
// returned alongside the error.
func (c *Client) Fetch(ctx context.Context, searchTerm string, from, to time.Time) ([]Quote, error) {
	if to.IsZero() {
		to = c.clock.Now()
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	command := buildCommand(searchTerm, from, to)

	// reset the slot first so a leftover result is never mistaken
	// for this query's output
	if err := c.transport.UpdateCell(ctx, querySlotCell, ""); err != nil {
		return nil, fmt.Errorf("failed to clear query slot: %w", err)
	}
	if err := c.transport.UpdateCell(ctx, querySlotCell, command); err != nil {
		return nil, fmt.Errorf("failed to write query: %w", err)
	}

	if err := c.awaitCompletion(ctx); err != nil {
		return nil, err
	}

	rows, err := c.transport.ReadTable(ctx)
	if err != nil {
		c.clearSlot(ctx)
		return nil, fmt.Errorf("failed to read query result: %w", err)
	}

	quotes, err := parseTable(rows)
	if err != nil {
		c.clearSlot(ctx)
		return nil, err
	}

	return quotes, nil
}

func (c *Client) awaitCompletion(ctx context.Context) error {
	deadline := c.clock.Now().Add(c.timeout)
	for {
		value, err := c.transport.ReadCell(ctx, querySlotCell)
		if err != nil {
			c.clearSlot(ctx)
			return fmt.Errorf("failed to poll query slot: %w", err)
		}
		if value == completionMarker {
			return nil
		}
		if !c.clock.Now().Before(deadline) {
			c.clearSlot(ctx)
			return ErrTimeout
		}
		c.clock.Sleep(c.pollInterval)
	}
}

func (c *Client) clearSlot(ctx context.Context) {
	// best effort - the next Fetch clears the slot again anyway
	_ = c.transport.UpdateCell(ctx, querySlotCell, "")
}

func buildCommand(searchTerm string, from, to time.Time) string {
	return fmt.Sprintf(
		`=GoogleFinance("%s","close",DATE(%d,%d,%d),DATE(%d,%d,%d),"DAILY")`,
		searchTerm,
		from.Year(), int(from.Month()), from.Day(),
		to.Year(), int(to.Month()), to.Day(),
	)
}

var dateLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseTable coerces the materialized Date/Close table into quotes.
// Non-numeric or blank close cells are skipped rather than failing
// the whole series.
func parseTable(rows [][]string) ([]Quote, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("malformed query result: missing header row")
	}
	if rows[0][0] != completionMarker {
		return nil, fmt.Errorf("malformed query result: unexpected header %q", rows[0][0])
	}

	quotes := []Quote{}
	for _, row := range rows[1:] {
		if len(row) < 2 || row[0] == "" {
			continue
		}
		date, err := parseDate(row[0])
		if err != nil {
			continue
		}
		close, err := strconv.ParseFloat(strings.ReplaceAll(row[1], ",", ""), 64)
		if err != nil {
			continue
		}
		quotes = append(quotes, Quote{Date: date, Close: close})
	}

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})

	return quotes, nil
}
