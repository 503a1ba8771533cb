package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"ratebot/internal/core/domain"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *MockRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, ttl)
	return redis.NewStatusResult("OK", args.Error(0))
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) ListCurrencies(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	currencies, _ := args.Get(0).(map[string]string)
	return currencies, args.Error(1)
}

func (m *MockProvider) Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error) {
	args := m.Called(ctx, from, to, amount)
	return args.Get(0).(domain.Conversion), args.Error(1)
}

func rate(v float64) *float64 {
	return &v
}

func TestRateCache_Convert(t *testing.T) {
	const key = "ratebot:rate:USD:UAH:1"

	tests := []struct {
		name      string
		setupMock func(r *MockRedis, p *MockProvider)
		want      domain.Conversion
		wantErr   bool
	}{
		{
			name: "cache hit skips provider",
			setupMock: func(r *MockRedis, _ *MockProvider) {
				r.On("Get", mock.Anything, key).Return("41.5", nil).Once()
			},
			want: domain.Conversion{Success: true, Result: rate(41.5)},
		},
		{
			name: "miss stores successful result",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, key).Return("", redis.Nil).Once()
				p.On("Convert", mock.Anything, "USD", "UAH", 1.0).
					Return(domain.Conversion{Success: true, Result: rate(41.5)}, nil).Once()
				r.On("Set", mock.Anything, key, []byte("41.5"), time.Minute).Return(nil).Once()
			},
			want: domain.Conversion{Success: true, Result: rate(41.5)},
		},
		{
			name: "unsuccessful result is not stored",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, key).Return("", redis.Nil).Once()
				p.On("Convert", mock.Anything, "USD", "UAH", 1.0).
					Return(domain.Conversion{ErrorInfo: "quota"}, nil).Once()
			},
			want: domain.Conversion{ErrorInfo: "quota"},
		},
		{
			name: "redis down falls through",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, key).Return("", errors.New("dial tcp: refused")).Once()
				p.On("Convert", mock.Anything, "USD", "UAH", 1.0).
					Return(domain.Conversion{Success: true, Result: rate(40)}, nil).Once()
				r.On("Set", mock.Anything, key, mock.Anything, time.Minute).Return(errors.New("refused")).Once()
			},
			want: domain.Conversion{Success: true, Result: rate(40)},
		},
		{
			name: "provider error propagates",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, key).Return("", redis.Nil).Once()
				p.On("Convert", mock.Anything, "USD", "UAH", 1.0).
					Return(domain.Conversion{}, errors.New("timeout")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := new(MockRedis)
			p := new(MockProvider)
			tc.setupMock(r, p)

			got, err := NewRateCache(p, r, time.Minute).Convert(t.Context(), "USD", "UAH", 1)

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
			r.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}

func TestRateCache_ListCurrencies(t *testing.T) {
	currencies := map[string]string{"USD": "United States Dollar"}

	tests := []struct {
		name      string
		setupMock func(r *MockRedis, p *MockProvider)
		wantErr   bool
	}{
		{
			name: "cache hit",
			setupMock: func(r *MockRedis, _ *MockProvider) {
				r.On("Get", mock.Anything, "ratebot:currencies").
					Return(`{"USD":"United States Dollar"}`, nil).Once()
			},
		},
		{
			name: "corrupt entry refetched",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, "ratebot:currencies").Return(`{`, nil).Once()
				p.On("ListCurrencies", mock.Anything).Return(currencies, nil).Once()
				r.On("Set", mock.Anything, "ratebot:currencies", mock.Anything, DefaultTTL).Return(nil).Once()
			},
		},
		{
			name: "provider failure",
			setupMock: func(r *MockRedis, p *MockProvider) {
				r.On("Get", mock.Anything, "ratebot:currencies").Return("", redis.Nil).Once()
				p.On("ListCurrencies", mock.Anything).Return(nil, errors.New("down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := new(MockRedis)
			p := new(MockProvider)
			tc.setupMock(r, p)

			got, err := NewRateCache(p, r, 0).ListCurrencies(t.Context())

			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, currencies, got)
			}
			r.AssertExpectations(t)
			p.AssertExpectations(t)
		})
	}
}
