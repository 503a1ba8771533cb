package service

import (
	"context"
	"ratebot/internal/core/domain"
	"ratebot/internal/core/port"

	"github.com/stretchr/testify/mock"
)

type mockTextSender struct {
	callCount   int
	sendChats   []int64
	sendReplies []string
	// sendErrors is consumed one per call; once exhausted every call succeeds.
	sendErrors []error
}

func (m *mockTextSender) SendMessage(_ context.Context, chatID int64, text string) error {
	m.callCount++
	m.sendChats = append(m.sendChats, chatID)
	m.sendReplies = append(m.sendReplies, text)

	if len(m.sendErrors) == 0 {
		return nil
	}
	err := m.sendErrors[0]
	m.sendErrors = m.sendErrors[1:]
	return err
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchLatest(ctx context.Context) (*domain.Update, error) {
	args := m.Called(ctx)
	update, _ := args.Get(0).(*domain.Update)
	return update, args.Error(1)
}

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Handle(ctx context.Context, message *domain.Message) (string, error) {
	args := m.Called(ctx, message)
	return args.String(0), args.Error(1)
}

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

// countingCommand counts executions so tests can assert a command was never reached.
type countingCommand struct {
	command string
	reply   string
	calls   int
}

func (c *countingCommand) Execute(_ context.Context, _ *domain.Message) string {
	c.calls++
	return c.reply
}

func (c *countingCommand) GetCommand() string {
	return c.command
}

// fakeRegistry resolves keywords to fixed handlers and counts lookups.
type fakeRegistry struct {
	commands map[string]port.Command
	lookups  int
}

func (r *fakeRegistry) Create(text string) (port.Command, error) {
	r.lookups++
	cmd, ok := r.commands[domain.ParseCommand(text)]
	if !ok {
		return nil, domain.ErrCommandNotFound
	}
	return cmd, nil
}

func (r *fakeRegistry) ListCommands() []string {
	return nil
}

func (r *fakeRegistry) Describe(_ string) string {
	return ""
}

type recordingTap struct {
	seen []string
}

func (t *recordingTap) Observe(_ context.Context, message *domain.Message) {
	t.seen = append(t.seen, message.Text)
}
