package googlefinance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type fakeTransport struct {
	updates    []string
	cellValues []string
	reads      int
	table      [][]string
	tableErr   error
}

func (t *fakeTransport) UpdateCell(_ context.Context, _ string, value string) error {
	t.updates = append(t.updates, value)
	return nil
}

func (t *fakeTransport) ReadCell(_ context.Context, _ string) (string, error) {
	i := t.reads
	if i >= len(t.cellValues) {
		i = len(t.cellValues) - 1
	}
	t.reads++
	if i < 0 {
		return "", nil
	}
	return t.cellValues[i], nil
}

func (t *fakeTransport) ReadTable(_ context.Context) ([][]string, error) {
	return t.table, t.tableErr
}

func TestClient_Fetch(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	t.Run("completes after several polls", func(t *testing.T) {
		transport := &fakeTransport{
			cellValues: []string{"", "#N/A", "Date"},
			table: [][]string{
				{"Date", "Close"},
				{"1/2/2024 16:00:00", "101.5"},
				{"1/3/2024 16:00:00", "102.25"},
			},
		}
		clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)}
		client := NewClient(transport, WithClock(clock))

		quotes, err := client.Fetch(context.Background(), "SPY", from, to)
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(
			[]Quote{
				{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 101.5},
				{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 102.25},
			},
			quotes,
		))

		// slot is cleared, then the formula is written
		require.Len(t, transport.updates, 2)
		require.Equal(t, "", transport.updates[0])
		require.Equal(
			t,
			`=GoogleFinance("SPY","close",DATE(2024,1,1),DATE(2024,1,5),"DAILY")`,
			transport.updates[1],
		)
	})

	t.Run("times out and clears the slot", func(t *testing.T) {
		transport := &fakeTransport{
			cellValues: []string{"#N/A"},
		}
		clock := &fakeClock{now: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)}
		client := NewClient(transport, WithClock(clock))

		_, err := client.Fetch(context.Background(), "SPY", from, to)
		require.ErrorIs(t, err, ErrTimeout)

		// clear, formula, then the post-timeout clear
		require.Len(t, transport.updates, 3)
		require.Equal(t, "", transport.updates[2])
	})

	t.Run("rejects inverted range before touching the transport", func(t *testing.T) {
		transport := &fakeTransport{}
		client := NewClient(transport, WithClock(&fakeClock{now: to}))

		_, err := client.Fetch(context.Background(), "SPY", to, from)
		require.ErrorIs(t, err, ErrInvalidRange)
		require.Empty(t, transport.updates)
		require.Zero(t, transport.reads)
	})

	t.Run("zero to defaults to now", func(t *testing.T) {
		transport := &fakeTransport{
			cellValues: []string{"Date"},
			table:      [][]string{{"Date", "Close"}},
		}
		clock := &fakeClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
		client := NewClient(transport, WithClock(clock))

		_, err := client.Fetch(context.Background(), "NI225", from, time.Time{})
		require.NoError(t, err)
		require.Contains(t, transport.updates[1], "DATE(2024,3,15)")
	})

	t.Run("clears the slot when the table is unreadable", func(t *testing.T) {
		transport := &fakeTransport{
			cellValues: []string{"Date"},
			tableErr:   errors.New("transport broke"),
		}
		client := NewClient(transport, WithClock(&fakeClock{now: to}))

		_, err := client.Fetch(context.Background(), "SPY", from, to)
		require.Error(t, err)
		require.Equal(t, "", transport.updates[len(transport.updates)-1])
	})
}

func Test_parseTable(t *testing.T) {
	t.Run("skips blank and non-numeric cells", func(t *testing.T) {
		quotes, err := parseTable([][]string{
			{"Date", "Close"},
			{"1/3/2024", "#N/A"},
			{"", ""},
			{"1/2/2024", "1,234.5"},
			{"not a date", "100"},
			{"1/4/2024", "105"},
		})
		require.NoError(t, err)

		require.Equal(t, "", cmp.Diff(
			[]Quote{
				{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 1234.5},
				{Date: time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), Close: 105},
			},
			quotes,
		))
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		_, err := parseTable([][]string{})
		require.Error(t, err)

		_, err = parseTable([][]string{{"Loading...", ""}})
		require.Error(t, err)
	})

	t.Run("sorts rows by date", func(t *testing.T) {
		quotes, err := parseTable([][]string{
			{"Date", "Close"},
			{"1/4/2024", "103"},
			{"1/2/2024", "101"},
			{"1/3/2024", "102"},
		})
		require.NoError(t, err)

		require.Len(t, quotes, 3)
		require.True(t, quotes[0].Date.Before(quotes[1].Date))
		require.True(t, quotes[1].Date.Before(quotes[2].Date))
	})
}
