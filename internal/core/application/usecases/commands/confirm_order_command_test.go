package commands_test

import (
	"errors"
	"testing"

	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/application/usecases/commands"
	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmOrderCommand(t *testing.T) {
	_, err := commands.NewConfirmOrderCommand(kernel.NewUUID(), order.Actor{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewConfirmOrderCommand(kernel.UUID{}, order.TokenActor(testToken))
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	cmd, err := commands.NewConfirmOrderCommand(kernel.NewUUID(), order.TokenActor(testToken))
	require.NoError(t, err)
	assert.True(t, cmd.Actor().IsToken())
}

func TestConfirmOrderCommandHandler_Handle_WithToken(t *testing.T) {
	ctx := t.Context()
	o := awaitingOrder(t, kernel.NewUUID())
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.TokenActor(testToken))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	events := new(MockEventPublisher)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once(),
		repo.On("Update", ctx, o).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		events.On("Publish", ctx, eventOfKind(fanout.OrderConfirmed)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, events)
	got, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, got.Status())
	assert.Nil(t, got.ConfirmationToken())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestConfirmOrderCommandHandler_Handle_WithSession(t *testing.T) {
	ctx := t.Context()
	owner := kernel.NewUUID()
	o := awaitingOrder(t, owner)
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.SessionActor(owner))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	events := new(MockEventPublisher)
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	events.On("Publish", ctx, eventOfKind(fanout.OrderConfirmed)).Once()
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, events)
	got, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, got.Status())
	assert.Nil(t, got.ConfirmationToken(), "session confirmation also consumes the token")
}

func TestConfirmOrderCommandHandler_Handle_WrongToken(t *testing.T) {
	ctx := t.Context()
	o := awaitingOrder(t, kernel.NewUUID())
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.TokenActor("ffffffffffffffffffffffffffffffffffffffff"))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	events := new(MockEventPublisher)
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, events)
	got, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.Nil(t, got)
	assert.Equal(t, order.AwaitingConfirmation, o.Status())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmOrderCommandHandler_Handle_ForeignSession(t *testing.T) {
	ctx := t.Context()
	o := awaitingOrder(t, kernel.NewUUID())
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.SessionActor(kernel.NewUUID()))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, new(MockEventPublisher))
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestConfirmOrderCommandHandler_Handle_ReplayedToken(t *testing.T) {
	ctx := t.Context()
	o := awaitingOrder(t, kernel.NewUUID())
	require.NoError(t, o.Confirm(order.TokenActor(testToken), o.UpdatedAt()))
	notes := o.AdminNotes()
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.TokenActor(testToken))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	events := new(MockEventPublisher)
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, events)
	got, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrAlreadyProcessed)
	require.NotNil(t, got)
	assert.Equal(t, order.Confirmed, got.Status())
	assert.Equal(t, notes, got.AdminNotes())
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	o := awaitingOrder(t, kernel.NewUUID())
	cmd, _ := commands.NewConfirmOrderCommand(o.ID(), order.TokenActor(testToken))

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	events := new(MockEventPublisher)
	uow.On("Begin", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, o.ID()).Return(o, nil).Once()
	repo.On("Update", ctx, o).Return(nil).Once()
	uow.On("Commit", ctx).Return(errors.New("commit error")).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := expectOrderUoW(uow, repo)

	h := commands.NewConfirmOrderCommandHandler(factory, events)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestConfirmOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewConfirmOrderCommand(kernel.NewUUID(), order.TokenActor(testToken))

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewConfirmOrderCommandHandler(factory, new(MockEventPublisher))
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
}
