package holiday

import (
	"context"
	"sync"
)

type ClientStub struct {
	mu       sync.Mutex
	holidays map[int][]Holiday
	errs     map[int]error
	calls    []int
}

func NewClientStub() *ClientStub {
	return &ClientStub{
		holidays: make(map[int][]Holiday),
		errs:     make(map[int]error),
	}
}

func (c *ClientStub) SetHolidays(year int, holidays []Holiday) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holidays[year] = holidays
}

func (c *ClientStub) SetError(year int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[year] = err
}

// Calls returns the requested years in call order.
func (c *ClientStub) Calls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]int, len(c.calls))
	copy(result, c.calls)
	return result
}

func (c *ClientStub) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, year)

	if err := c.errs[year]; err != nil {
		return nil, err
	}
	result := make([]Holiday, len(c.holidays[year]))
	copy(result, c.holidays[year])
	return result, nil
}
