package messages

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/apperr"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/authz"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/mocks"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

func TestSendMessage(t *testing.T) {
	sender := authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	receiver := uuid.New()

	ms := new(mocks.MessageStore)
	us := new(mocks.UserStore)
	n := &mocks.Notifier{}
	us.On("FindByID", mock.Anything, receiver).Return(&models.User{ID: receiver}, nil)
	ms.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.SenderID == sender.UserID && m.ReceiverID == receiver && m.Content == "hello"
	})).Return(nil)

	msg, err := NewService(ms, us, n).Send(context.Background(), sender, receiver, "  hello ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)

	sent := n.All()
	require.Len(t, sent, 1)
	assert.Equal(t, models.NotifyMessageReceived, sent[0].Kind)
	assert.Equal(t, receiver, sent[0].UserID)
	assert.Empty(t, sent[0].Email)
	ms.AssertExpectations(t)
}

func TestSendMessageValidation(t *testing.T) {
	sender := authz.Identity{UserID: uuid.New(), Role: models.RoleFreelancer}
	svc := NewService(new(mocks.MessageStore), new(mocks.UserStore), &mocks.Notifier{})

	_, err := svc.Send(context.Background(), sender, uuid.New(), "   ")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Send(context.Background(), sender, sender.UserID, "hi me")
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = svc.Send(context.Background(), authz.Identity{}, uuid.New(), "hi")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	sender := authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	receiver := uuid.New()
	ms := new(mocks.MessageStore)
	us := new(mocks.UserStore)
	us.On("FindByID", mock.Anything, receiver).Return(nil, apperr.NotFound("user"))

	_, err := NewService(ms, us, &mocks.Notifier{}).Send(context.Background(), sender, receiver, "hi")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	ms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestConversation(t *testing.T) {
	me := authz.Identity{UserID: uuid.New(), Role: models.RoleClient}
	peer := uuid.New()
	ms := new(mocks.MessageStore)
	ms.On("Between", mock.Anything, me.UserID, peer).Return([]models.Message{{Content: "a"}, {Content: "b"}}, nil)

	got, err := NewService(ms, new(mocks.UserStore), &mocks.Notifier{}).Conversation(context.Background(), me, peer)
	require.NoError(t, err)
	assert.Equal(t, "a", got[0].Content)
	assert.Len(t, got, 2)
}
