package service

import (
	"context"
	"errors"
	"testing"

	"docuchat-cli/internal/constant"
	"docuchat-cli/internal/dto"
	"docuchat-cli/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatFixture(t *testing.T, remote *fakeRemote) (IChatService, ISessionService, IDocumentService) {
	t.Helper()
	docs := NewDocumentService(remote, nopLogger{})
	sessions := NewSessionService(remote, docs, nopLogger{}, t.TempDir())
	chat := NewChatService(remote, sessions, docs, nopLogger{})
	return chat, sessions, docs
}

func TestSendRefusesEmptyInput(t *testing.T) {
	remote := newFakeRemote()
	chat, sessions, _ := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))
	remote.calls = map[string]int{}

	assert.ErrorIs(t, chat.Send(context.Background(), "   \n\t"), ErrEmptyMessage)
	assert.Empty(t, sessions.Messages())
	assert.Equal(t, 0, remote.totalCalls())
}

func TestSendRefusesWithoutActiveSession(t *testing.T) {
	remote := newFakeRemote()
	chat, sessions, _ := newChatFixture(t, remote)

	assert.ErrorIs(t, chat.Send(context.Background(), "hello"), ErrNoActiveSession)
	assert.Empty(t, sessions.Messages())
	assert.Equal(t, 0, remote.callCount("SendChat"))
}

func TestSendRefusesWhileInFlight(t *testing.T) {
	remote := newFakeRemote()
	release := make(chan struct{})
	started := make(chan struct{})
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		close(started)
		<-release
		return &dto.SendChatResponse{Content: "done"}, nil
	}
	chat, sessions, _ := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))

	done := make(chan error, 1)
	go func() { done <- chat.Send(context.Background(), "first") }()
	<-started

	assert.True(t, chat.InFlight())
	assert.ErrorIs(t, chat.Send(context.Background(), "second"), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, chat.InFlight())
	assert.Equal(t, 1, remote.callCount("SendChat"))
}

func TestSendAppendsOptimisticUserThenAssistantWithSources(t *testing.T) {
	remote := newFakeRemote()
	remote.createSessionFn = func(ctx context.Context) (*dto.CreateSessionResponse, error) {
		return &dto.CreateSessionResponse{SessionId: "s1"}, nil
	}
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		assert.Equal(t, "What is X?", req.Message)
		assert.Equal(t, "s1", req.SessionId)
		assert.Nil(t, req.DocumentIds)
		return &dto.SendChatResponse{
			Role:       "assistant",
			Content:    "X is...",
			Sources:    []dto.SourceResponse{{Source: "doc1.pdf", Content: "..."}},
			Confidence: "high",
		}, nil
	}
	chat, sessions, _ := newChatFixture(t, remote)
	_, err := sessions.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, chat.Send(context.Background(), "What is X?"))

	msgs := sessions.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, msgs[0].Role)
	assert.Equal(t, "What is X?", msgs[0].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, msgs[1].Role)
	assert.Equal(t, "X is...", msgs[1].Content)
	require.Len(t, msgs[1].Sources, 1)
	assert.Equal(t, "doc1.pdf", msgs[1].Sources[0].Source)
	assert.Equal(t, "high", msgs[1].Confidence)
}

func TestSendScopesToSelection(t *testing.T) {
	remote := newFakeRemote()
	remote.listDocumentsFn = func(ctx context.Context) ([]dto.DocumentResponse, error) {
		return docList("d1", "d2"), nil
	}
	var sent *dto.SendChatRequest
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		sent = req
		return &dto.SendChatResponse{Content: "scoped"}, nil
	}
	chat, sessions, docs := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))
	require.NoError(t, docs.Refresh(context.Background()))
	docs.Toggle("d2")

	require.NoError(t, chat.Send(context.Background(), "scoped question"))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"d2"}, sent.DocumentIds)
}

func TestSendFallsBackToAnswerField(t *testing.T) {
	remote := newFakeRemote()
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		return &dto.SendChatResponse{Answer: "from the answer field"}, nil
	}
	chat, sessions, _ := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))

	require.NoError(t, chat.Send(context.Background(), "q"))
	msgs := sessions.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "from the answer field", msgs[1].Content)
}

func TestSendFailureIsSwallowedIntoTranscript(t *testing.T) {
	remote := newFakeRemote()
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		return nil, errors.New("network down")
	}
	chat, sessions, _ := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))

	// Failure produces a transcript entry, not an error.
	require.NoError(t, chat.Send(context.Background(), "doomed"))

	msgs := sessions.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, msgs[0].Role)
	assert.Equal(t, constant.ChatMessageRoleAssistant, msgs[1].Role)
	assert.Equal(t, constant.ErrGenericChat, msgs[1].Content)
	assert.False(t, chat.InFlight())
}

func TestSendFailureSurfacesServerMessageInTranscript(t *testing.T) {
	remote := newFakeRemote()
	remote.sendChatFn = func(ctx context.Context, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
		return nil, &api.RemoteError{Op: "chat", Status: 404, Message: "Invalid Session ID"}
	}
	chat, sessions, _ := newChatFixture(t, remote)
	require.NoError(t, sessions.Load(context.Background(), "s1"))

	require.NoError(t, chat.Send(context.Background(), "q"))
	msgs := sessions.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Invalid Session ID", msgs[1].Content)
}
