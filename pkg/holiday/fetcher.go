package holiday

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Report lists the years that were merged into the table and those that failed.
type Report struct {
	Loaded []int
	Failed []int
}

// Fetcher fills a Table for an inclusive range of years, one request per year.
type Fetcher struct {
	client   Client
	table    *Table
	country  string
	fromYear int
	toYear   int
}

func NewFetcher(client Client, table *Table, country string, fromYear, toYear int) *Fetcher {
	return &Fetcher{
		client:   client,
		table:    table,
		country:  country,
		fromYear: fromYear,
		toYear:   toYear,
	}
}

// Fetch requests every year sequentially. A failed year is logged and skipped, its dates simply
// carry no holiday marking; the remaining years are still requested.
func (f *Fetcher) Fetch(ctx context.Context) Report {
	var report Report
	for year := f.fromYear; year <= f.toYear; year++ {
		holidays, err := f.client.PublicHolidays(ctx, year, f.country)
		if err != nil {
			log.WithField("year", year).Errorf("failed to fetch holidays: %v", err)
			report.Failed = append(report.Failed, year)
			continue
		}
		f.table.Merge(holidays)
		report.Loaded = append(report.Loaded, year)
	}
	log.Infof("Holiday table holds %d dates (loaded years %v, failed years %v)", f.table.Len(), report.Loaded, report.Failed)
	return report
}
