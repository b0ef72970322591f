package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/peasy-money/peasy-money-backend/internal/yahoo"
	"github.com/rs/zerolog"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined test data instead of making actual API calls.
// It is safe for concurrent use, since the bulk price fetch queries in parallel.
type MockYahooClient struct {
	mu sync.Mutex

	// MockResponse is returned for symbols without an entry in SymbolResponses
	MockResponse yahoo.Response
	// SymbolResponses holds per-symbol responses
	SymbolResponses map[string]yahoo.Response
	// SymbolErrors holds per-symbol failures
	SymbolErrors map[string]error
	// QueryCount tracks how many times a query method was called
	QueryCount int
	// Queried records the symbols in call order
	Queried []string
}

// NewMockYahooClient creates a new mock Yahoo client with default test data.
// The default data includes 5 days of historical prices suitable for testing.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockResponse:    CreateMockYahooResponse(5),
		SymbolResponses: map[string]yahoo.Response{},
		SymbolErrors:    map[string]error{},
	}
}

func (m *MockYahooClient) respond(symbol string) (yahoo.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCount++
	m.Queried = append(m.Queried, symbol)
	if err, ok := m.SymbolErrors[symbol]; ok {
		return yahoo.Response{}, err
	}
	if resp, ok := m.SymbolResponses[symbol]; ok {
		return resp, nil
	}
	return m.MockResponse, nil
}

// QueryYahooFiveDaySymbol mocks the 5-day symbol query with predefined test data.
func (m *MockYahooClient) QueryYahooFiveDaySymbol(_ context.Context, symbol string) (yahoo.Response, error) {
	return m.respond(symbol)
}

// QueryYahooSymbolByDateRange mocks the date range query with predefined test data.
// The range is ignored; the configured response is returned as is.
func (m *MockYahooClient) QueryYahooSymbolByDateRange(_ context.Context, symbol string, _, _ time.Time) (yahoo.Response, error) {
	return m.respond(symbol)
}

// ParseChart delegates to the real ParseChart method since it's pure logic with no side effects.
func (m *MockYahooClient) ParseChart(yahooResult yahoo.Response) (yahoo.PriceChart, error) {
	return yahoo.NewFinanceClient(zerolog.Nop()).ParseChart(yahooResult)
}

// Count returns QueryCount under the lock.
func (m *MockYahooClient) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithResponse configures the mock to return the specified response.
func (m *MockYahooClient) WithResponse(resp yahoo.Response) *MockYahooClient {
	m.MockResponse = resp
	return m
}

// WithSymbolResponse configures the response for one symbol.
func (m *MockYahooClient) WithSymbolResponse(symbol string, resp yahoo.Response) *MockYahooClient {
	m.SymbolResponses[symbol] = resp
	return m
}

// WithSymbolError configures a failure for one symbol.
func (m *MockYahooClient) WithSymbolError(symbol string, err error) *MockYahooClient {
	m.SymbolErrors[symbol] = err
	return m
}

// ClosePrice is one daily close used to build mock responses.
type ClosePrice struct {
	Date  time.Time
	Close float64
}

// CreateMockYahooResponse creates a mock Yahoo Finance API response with test data.
// The response includes `days` number of days of price data, ending yesterday.
// The close on day i is 100.25 + 0.5*i.
func CreateMockYahooResponse(days int) yahoo.Response {
	yesterday := Day(time.Now().UTC()).AddDate(0, 0, -1)

	closes := make([]ClosePrice, days)
	for i := 0; i < days; i++ {
		closes[i] = ClosePrice{
			Date:  yesterday.AddDate(0, 0, -days+i+1),
			Close: 100.0 + float64(i)*0.5 + 0.25,
		}
	}
	return CreateMockYahooResponseForCloses("TEST", closes...)
}

// CreateMockYahooResponseForDate creates a mock Yahoo response with a single day's data.
// Useful for testing specific date scenarios.
func CreateMockYahooResponseForDate(date time.Time, price float64) yahoo.Response {
	return CreateMockYahooResponseForCloses("TEST", ClosePrice{Date: date, Close: price})
}

// CreateMockYahooResponseForCloses creates a mock Yahoo response for symbol with the given closes.
// Each session is stamped at 09:00 UTC on its date.
func CreateMockYahooResponseForCloses(symbol string, closes ...ClosePrice) yahoo.Response {
	timestamps := make([]int64, len(closes))
	opens := make([]*float64, len(closes))
	closeValues := make([]*float64, len(closes))
	volumes := make([]*int64, len(closes))

	for i, c := range closes {
		timestamps[i] = Day(c.Date).Add(9 * time.Hour).Unix()
		price := c.Close
		volume := int64(1000000 + i*10000)
		opens[i] = &price
		closeValues[i] = &price
		volumes[i] = &volume
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:           symbol,
						Currency:         "EUR",
						ExchangeName:     "PAR",
						FullExchangeName: "Paris",
						LongName:         fmt.Sprintf("%s Test Fund", symbol),
						Shortname:        symbol,
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{
							{
								Open:   opens,
								High:   closeValues,
								Low:    closeValues,
								Close:  closeValues,
								Volume: volumes,
							},
						},
					},
				},
			},
		},
	}
}
