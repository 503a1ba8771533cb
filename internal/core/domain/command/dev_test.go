package command

import (
	"context"
	"errors"
	"fmt"
	"ratebot/internal/core/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) AddOrUpdateUser(ctx context.Context, id int64, name string) error {
	return m.Called(ctx, id, name).Error(0)
}

func (m *MockUserStore) GetUserName(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockUserStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, text string) (int, error) {
	args := m.Called(ctx, text)
	return args.Int(0), args.Error(1)
}

type MockHost struct {
	mock.Mock
}

func (m *MockHost) Stats(ctx context.Context) (domain.HostStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.HostStats), args.Error(1)
}

type panickingHost struct{}

func (panickingHost) Stats(_ context.Context) (domain.HostStats, error) {
	panic("sensor exploded")
}

const adminID = int64(7)

func TestDev_Execute(t *testing.T) {
	tests := []struct {
		name      string
		userID    int64
		text      string
		mockSetup func(u *MockUserStore, b *MockBroadcaster, h *MockHost)
		check     func(t *testing.T, got string)
	}{
		{
			name:   "non-admin is denied",
			userID: 99,
			text:   "/dev",
			check: func(t *testing.T, got string) {
				assert.Equal(t, devNoAccess, got)
			},
		},
		{
			name:   "defaults to get_ids",
			userID: adminID,
			text:   "/dev",
			check: func(t *testing.T, got string) {
				assert.Equal(t, "🆔 User ID: `7`\nChat ID: `100`", got)
			},
		},
		{
			name:   "help lists sub-commands",
			userID: adminID,
			text:   "/dev help",
			check: func(t *testing.T, got string) {
				for _, sub := range []string{"broadcast", "get_ids", "help", "runtime", "sys", "user"} {
					assert.Contains(t, got, "`"+sub+"`")
				}
				assert.Less(t, strings.Index(got, "broadcast"), strings.Index(got, "user"))
			},
		},
		{
			name:   "unknown sub-command",
			userID: adminID,
			text:   "/dev frobnicate",
			check: func(t *testing.T, got string) {
				assert.Equal(t, fmt.Sprintf(devUnknown, "/dev"), got)
			},
		},
		{
			name:   "runtime report",
			userID: adminID,
			text:   "/dev runtime",
			check: func(t *testing.T, got string) {
				assert.Contains(t, got, "allocated mem:")
				assert.Contains(t, got, "goroutines running:")
				assert.Contains(t, got, "compiled with")
			},
		},
		{
			name:   "sys report",
			userID: adminID,
			text:   "/dev sys",
			mockSetup: func(_ *MockUserStore, _ *MockBroadcaster, h *MockHost) {
				h.On("Stats", mock.Anything).Return(domain.HostStats{
					Hostname: "nas", Platform: "debian", PlatformVersion: "12", KernelVersion: "6.1",
					Uptime: 90, CPUModel: "arm", LogicalCPUs: 4, Load1: 0.5,
					MemTotal: 2048 * kb * kb, MemUsed: 1024 * kb * kb, MemUsedPercent: 50,
				}, nil).Once()
			},
			check: func(t *testing.T, got string) {
				assert.Contains(t, got, "nas (debian 12, kernel 6.1)")
				assert.Contains(t, got, "uptime: 1m30s")
				assert.Contains(t, got, "mem: 1024/2048 MB (50.0%)")
			},
		},
		{
			name:   "sys error becomes reply",
			userID: adminID,
			text:   "/dev sys",
			mockSetup: func(_ *MockUserStore, _ *MockBroadcaster, h *MockHost) {
				h.On("Stats", mock.Anything).Return(domain.HostStats{}, errors.New("no procfs")).Once()
			},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "❌ Sub-command `sys` failed: failed to read host stats: no procfs", got)
			},
		},
		{
			name:   "user lookup",
			userID: adminID,
			text:   "/dev user 42",
			mockSetup: func(u *MockUserStore, _ *MockBroadcaster, _ *MockHost) {
				u.On("GetUserName", mock.Anything, int64(42)).Return("alice", nil).Once()
			},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "👤 42: alice", got)
			},
		},
		{
			name:   "user not found",
			userID: adminID,
			text:   "/dev user 43",
			mockSetup: func(u *MockUserStore, _ *MockBroadcaster, _ *MockHost) {
				u.On("GetUserName", mock.Anything, int64(43)).Return("", domain.ErrUserNotFound).Once()
			},
			check: func(t *testing.T, got string) {
				assert.Equal(t, devUserNotFound, got)
			},
		},
		{
			name:   "user with bad id",
			userID: adminID,
			text:   "/dev user abc",
			check: func(t *testing.T, got string) {
				assert.True(t, strings.HasPrefix(got, "❌ Sub-command `user` failed: invalid user id"))
			},
		},
		{
			name:   "broadcast keeps text",
			userID: adminID,
			text:   "/dev broadcast  hello\nall of you",
			mockSetup: func(_ *MockUserStore, b *MockBroadcaster, _ *MockHost) {
				b.On("Broadcast", mock.Anything, "hello\nall of you").Return(3, nil).Once()
			},
			check: func(t *testing.T, got string) {
				assert.Equal(t, "📣 Broadcast delivered to 3 users.", got)
			},
		},
		{
			name:   "broadcast without text",
			userID: adminID,
			text:   "/dev broadcast",
			check: func(t *testing.T, got string) {
				assert.Equal(t, "❌ Sub-command `broadcast` failed: usage: /dev broadcast <text>", got)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserStore)
			broadcaster := new(MockBroadcaster)
			host := new(MockHost)
			if tc.mockSetup != nil {
				tc.mockSetup(users, broadcaster, host)
			}

			d := NewDev(DevParams{
				AdminIDs:    []int64{1, adminID},
				Users:       users,
				Broadcaster: broadcaster,
				Host:        host,
				Command:     "/dev",
			})

			got := d.Execute(t.Context(), &domain.Message{ChatID: 100, UserID: tc.userID, Text: tc.text})

			tc.check(t, got)
			users.AssertExpectations(t)
			broadcaster.AssertExpectations(t)
			host.AssertExpectations(t)
		})
	}
}

func TestDev_PanicInSubCommandIsRecovered(t *testing.T) {
	d := NewDev(DevParams{AdminIDs: []int64{adminID}, Host: panickingHost{}, Command: "/dev"})

	got := d.Execute(t.Context(), &domain.Message{UserID: adminID, Text: "/dev sys"})

	assert.Equal(t, "❌ Sub-command `sys` failed: sensor exploded", got)
}

func TestDev_MissingCollaborators(t *testing.T) {
	d := NewDev(DevParams{AdminIDs: []int64{adminID}, Command: "/dev"})

	assert.Equal(t, "user store is not configured",
		d.Execute(t.Context(), &domain.Message{UserID: adminID, Text: "/dev user 1"}))
	assert.Equal(t, "broadcast is not configured",
		d.Execute(t.Context(), &domain.Message{UserID: adminID, Text: "/dev broadcast hi"}))
	assert.Equal(t, "host inspection is not configured",
		d.Execute(t.Context(), &domain.Message{UserID: adminID, Text: "/dev sys"}))
}
