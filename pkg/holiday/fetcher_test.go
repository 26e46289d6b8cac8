package holiday

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Run("should request every year in order and merge results", func(t *testing.T) {
		// given
		client := NewClientStub()
		client.SetHolidays(2024, []Holiday{{Date: "2024-01-01", LocalName: "元日"}})
		client.SetHolidays(2025, []Holiday{{Date: "2025-01-01", LocalName: "元日"}, {Date: "2025-02-11", LocalName: "建国記念の日"}})
		table := NewTable()
		fetcher := NewFetcher(client, table, "JP", 2024, 2027)

		// when
		report := fetcher.Fetch(context.Background())

		// then
		assert.Equal(t, []int{2024, 2025, 2026, 2027}, client.Calls())
		assert.Equal(t, []int{2024, 2025, 2026, 2027}, report.Loaded)
		assert.Empty(t, report.Failed)
		assert.Equal(t, 3, table.Len())
		name, ok := table.Name("2025-02-11")
		assert.True(t, ok)
		assert.Equal(t, "建国記念の日", name)
	})

	t.Run("should continue after a failed year", func(t *testing.T) {
		// given
		client := NewClientStub()
		client.SetHolidays(2024, []Holiday{{Date: "2024-01-01", LocalName: "元日"}})
		client.SetError(2025, errors.New("service unavailable"))
		client.SetHolidays(2026, []Holiday{{Date: "2026-01-01", LocalName: "元日"}})
		table := NewTable()
		fetcher := NewFetcher(client, table, "JP", 2024, 2026)

		// when
		report := fetcher.Fetch(context.Background())

		// then
		assert.Equal(t, []int{2024, 2025, 2026}, client.Calls())
		assert.Equal(t, []int{2024, 2026}, report.Loaded)
		assert.Equal(t, []int{2025}, report.Failed)
		_, ok := table.Name("2026-01-01")
		assert.True(t, ok)
	})

	t.Run("should leave table empty when every year fails", func(t *testing.T) {
		client := NewClientStub()
		for year := 2024; year <= 2027; year++ {
			client.SetError(year, errors.New("offline"))
		}
		table := NewTable()

		report := NewFetcher(client, table, "JP", 2024, 2027).Fetch(context.Background())

		assert.Empty(t, report.Loaded)
		assert.Len(t, report.Failed, 4)
		assert.Equal(t, 0, table.Len())
	})
}
