package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/tgchat/internal/mocks"
	"github.com/target/tgchat/internal/ports"
)

func TestSessionService(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockSessionStore(ctrl)
	svc := NewSessionService(store)
	ctx := context.Background()

	store.EXPECT().Put(ctx, "tok", "payload", time.Duration(0)).Return(nil)
	require.NoError(t, svc.SetSessionPayload(ctx, "tok", "payload", 0))

	store.EXPECT().Get(ctx, "tok").Return("", ports.ErrSessionNotFound)
	_, err := svc.GetSessionPayload(ctx, "tok")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	boom := errors.New("boom")
	store.EXPECT().Delete(ctx, "tok").Return(boom)
	err = svc.DeleteSession(ctx, "tok")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "delete session")
}

func TestSessionService_EmptyToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewSessionService(mocks.NewMockSessionStore(ctrl))
	ctx := context.Background()

	require.Error(t, svc.SetSessionPayload(ctx, "", "p", 0))
	_, err := svc.GetSessionPayload(ctx, "")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.NoError(t, svc.DeleteSession(ctx, ""))
}

func TestNewSessionService_RequiresStore(t *testing.T) {
	assert.Panics(t, func() { NewSessionService(nil) })
}
