package command

import (
	"context"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListCurrencies(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	codes, _ := args.Get(0).(map[string]string)
	return codes, args.Error(1)
}

func (m *MockProvider) Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error) {
	args := m.Called(ctx, from, to, amount)
	return args.Get(0).(domain.Conversion), args.Error(1)
}

type MockSnapshot struct {
	mock.Mock
}

func (m *MockSnapshot) Load() (map[string]string, error) {
	args := m.Called()
	codes, _ := args.Get(0).(map[string]string)
	return codes, args.Error(1)
}

func (m *MockSnapshot) Save(currencies map[string]string) error {
	args := m.Called(currencies)
	return args.Error(0)
}

func providerFactory(p *MockProvider) ProviderFactory {
	return func() (port.CurrencyProvider, error) {
		return p, nil
	}
}

func rate(v float64) *float64 {
	return &v
}

var knownCurrencies = map[string]string{
	"USD": "United States Dollar",
	"EUR": "Euro",
	"UAH": "Ukrainian Hryvnia",
}
