package services

import (
	"context"
	"testing"

	"knowledge-chatbot-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestChatService(provider *fakeProvider, convo *fakeConversationStore) *ChatService {
	index := NewVectorIndex()
	rag := NewRagService(provider, index, newFakeDocStore(), 4)
	return NewChatService(rag, convo)
}

func TestChatSendRecordsBothTurns(t *testing.T) {
	convo := &fakeConversationStore{}
	svc := newTestChatService(&fakeProvider{}, convo)
	owner := primitive.NewObjectID().Hex()

	answer, err := svc.Send(context.Background(), owner, "hello?")
	require.NoError(t, err)
	require.NotNil(t, answer)

	history, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, "hello?", history[0].Text)
	assert.Equal(t, models.RoleAssistant, history[1].Role)
	assert.Equal(t, answer.Text, history[1].Text)
}

func TestChatSendSurvivesAssistantPersistFailure(t *testing.T) {
	convo := &fakeConversationStore{appendErrOnRole: models.RoleAssistant}
	svc := newTestChatService(&fakeProvider{}, convo)
	owner := primitive.NewObjectID().Hex()

	answer, err := svc.Send(context.Background(), owner, "hello?")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Text)

	history, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.RoleUser, history[0].Role)
}

func TestChatSendFailsWhenUserTurnCannotPersist(t *testing.T) {
	convo := &fakeConversationStore{appendErrOnRole: models.RoleUser}
	svc := newTestChatService(&fakeProvider{}, convo)
	owner := primitive.NewObjectID().Hex()

	_, err := svc.Send(context.Background(), owner, "hello?")
	assert.Error(t, err)
}

func TestChatClearHistory(t *testing.T) {
	convo := &fakeConversationStore{}
	svc := newTestChatService(&fakeProvider{}, convo)
	owner := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()

	_, err := svc.Send(context.Background(), owner, "hi")
	require.NoError(t, err)
	_, err = svc.Send(context.Background(), other, "hi")
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(context.Background(), owner))

	mine, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.History(context.Background(), other)
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}
