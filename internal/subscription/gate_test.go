package subscription_test

import (
	"context"
	"errors"
	"testing"

	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/subscription"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockChannels is a testify mock for the channel requirement source.
type MockChannels struct {
	mock.Mock
}

func (m *MockChannels) ActiveChannels(botID uint) ([]models.SubscribeChannel, error) {
	args := m.Called(botID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SubscribeChannel), args.Error(1)
}

// MockChecker is a testify mock for the provider membership call.
type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) GetChatMember(ctx context.Context, channelID string, userID int64) (string, error) {
	args := m.Called(ctx, channelID, userID)
	return args.String(0), args.Error(1)
}

func gateUser() *models.User {
	return &models.User{ID: 1, TelegramID: 555, BotID: 2}
}

func twoChannels() []models.SubscribeChannel {
	return []models.SubscribeChannel{
		{ID: 1, ChannelID: "chan_a", Username: "chan_a", BotID: 2, Active: true},
		{ID: 2, ChannelID: "chan_b", Username: "chan_b", BotID: 2, Active: true},
	}
}

// TestCheck_NoChannelsIsSatisfied verifies the empty requirement set
// passes without any provider call.
func TestCheck_NoChannelsIsSatisfied(t *testing.T) {
	// Arrange
	channels := new(MockChannels)
	checker := new(MockChecker)
	gate := subscription.NewGate(channels, checker, zerolog.Nop())

	channels.On("ActiveChannels", uint(2)).Return([]models.SubscribeChannel{}, nil).Once()

	// Act
	ok, remaining, err := gate.Check(context.Background(), gateUser())

	// Assert
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, remaining)
	checker.AssertNotCalled(t, "GetChatMember", mock.Anything, mock.Anything, mock.Anything)
}

// TestCheck_AllJoined accepts member, administrator and creator states.
func TestCheck_AllJoined(t *testing.T) {
	channels := new(MockChannels)
	checker := new(MockChecker)
	gate := subscription.NewGate(channels, checker, zerolog.Nop())

	channels.On("ActiveChannels", uint(2)).Return(twoChannels(), nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_a", int64(555)).Return("member", nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_b", int64(555)).Return("administrator", nil).Once()

	ok, remaining, err := gate.Check(context.Background(), gateUser())

	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, remaining)
}

// TestCheck_ReturnsOnlyMissingChannels verifies the remaining list is
// the exact not-joined subset, in channel order.
func TestCheck_ReturnsOnlyMissingChannels(t *testing.T) {
	channels := new(MockChannels)
	checker := new(MockChecker)
	gate := subscription.NewGate(channels, checker, zerolog.Nop())

	channels.On("ActiveChannels", uint(2)).Return(twoChannels(), nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_a", int64(555)).Return("left", nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_b", int64(555)).Return("member", nil).Once()

	ok, remaining, err := gate.Check(context.Background(), gateUser())

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "chan_a", remaining[0].ChannelID)
}

// TestCheck_ProviderErrorFailsClosed: an unanswerable channel counts as
// not joined instead of waving the user through.
func TestCheck_ProviderErrorFailsClosed(t *testing.T) {
	channels := new(MockChannels)
	checker := new(MockChecker)
	gate := subscription.NewGate(channels, checker, zerolog.Nop())

	channels.On("ActiveChannels", uint(2)).Return(twoChannels(), nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_a", int64(555)).Return("", errors.New("timeout")).Once()
	checker.On("GetChatMember", mock.Anything, "chan_b", int64(555)).Return("member", nil).Once()

	ok, remaining, err := gate.Check(context.Background(), gateUser())

	assert.NoError(t, err, "a provider error on one channel must not fail the whole check")
	assert.False(t, ok)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "chan_a", remaining[0].ChannelID)
}

// TestCheck_JoinThenPass: the gate reflects a join immediately because
// nothing is cached between checks.
func TestCheck_JoinThenPass(t *testing.T) {
	channels := new(MockChannels)
	checker := new(MockChecker)
	gate := subscription.NewGate(channels, checker, zerolog.Nop())

	one := twoChannels()[:1]
	channels.On("ActiveChannels", uint(2)).Return(one, nil).Twice()
	checker.On("GetChatMember", mock.Anything, "chan_a", int64(555)).Return("left", nil).Once()
	checker.On("GetChatMember", mock.Anything, "chan_a", int64(555)).Return("member", nil).Once()

	ok, _, err := gate.Check(context.Background(), gateUser())
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, remaining, err := gate.Check(context.Background(), gateUser())
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, remaining)
	checker.AssertExpectations(t)
}
