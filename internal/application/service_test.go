package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendingapi/internal/notification"
)

type recordingNotifier struct {
	mu       sync.Mutex
	received []notification.Received
	changes  []notification.StatusChange
	receipt  notification.Receipt
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{receipt: notification.Receipt{Success: true, MessageID: "m-1"}}
}

func (n *recordingNotifier) ApplicationReceived(_ context.Context, r notification.Received) notification.Receipt {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, r)
	return n.receipt
}

func (n *recordingNotifier) StatusChanged(_ context.Context, c notification.StatusChange) notification.Receipt {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.receipt
}

func (n *recordingNotifier) statusChanges() []notification.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.StatusChange(nil), n.changes...)
}

func sampleInput() CreateInput {
	return CreateInput{
		FullName:    " Budi Santoso ",
		Email:       "Budi@Example.com",
		Phone:       "+62 812 3456 7890",
		CompanyName: "CV Maju Jaya",
		LoanType:    "working_capital",
		LoanAmount:  50000000,
		TenorMonths: 12,
		Purpose:     "Inventory",
	}
}

func TestService_Create(t *testing.T) {
	repo := NewMemoryRepo()
	n := newRecordingNotifier()
	svc := NewService(repo, NewWorkflow(PolicyAllow), n)

	a, err := svc.Create(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, "Budi Santoso", a.FullName)
	assert.Equal(t, "budi@example.com", a.Email)
	require.NoError(t, svc.Wait(context.Background()))
	require.Len(t, n.received, 1)
	assert.Equal(t, notification.Received{
		ApplicationID: a.ID,
		Email:         "budi@example.com",
		CustomerName:  "Budi Santoso",
		LoanType:      "working_capital",
		LoanAmount:    50000000,
		TenorMonths:   12,
	}, n.received[0])
}

func TestService_CreateStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	n := newRecordingNotifier()
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), n)

	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.Create(context.Background(), sampleInput())
	assert.Error(t, err)
	require.NoError(t, svc.Wait(context.Background()))
	assert.Empty(t, n.received)
}

type blockingNotifier struct {
	*recordingNotifier
	release chan struct{}
	ctxErr  chan error
}

func (n *blockingNotifier) ApplicationReceived(ctx context.Context, r notification.Received) notification.Receipt {
	<-n.release
	n.ctxErr <- ctx.Err()
	return n.recordingNotifier.ApplicationReceived(ctx, r)
}

func TestService_CreateDoesNotWaitForConfirmationEmail(t *testing.T) {
	n := &blockingNotifier{
		recordingNotifier: newRecordingNotifier(),
		release:           make(chan struct{}),
		ctxErr:            make(chan error, 1),
	}
	svc := NewService(NewMemoryRepo(), NewWorkflow(PolicyAllow), n)

	ctx, cancel := context.WithCancel(context.Background())
	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	cancel()

	waitCtx, stop := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer stop()
	assert.ErrorIs(t, svc.Wait(waitCtx), context.DeadlineExceeded, "email is still in flight")

	close(n.release)
	require.NoError(t, svc.Wait(context.Background()))
	assert.NoError(t, <-n.ctxErr, "request cancellation must not reach the send")
	require.Len(t, n.received, 1)
	assert.Equal(t, a.ID, n.received[0].ApplicationID)
}

func TestService_StatusScenario(t *testing.T) {
	ctx := context.Background()
	n := newRecordingNotifier()
	svc := NewService(NewMemoryRepo(), NewWorkflow(PolicyAllow), n)

	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	require.Equal(t, StatusPending, a.Status)

	res, err := svc.UpdateStatus(ctx, a.ID, "reviewing", nil)
	require.NoError(t, err)
	assert.True(t, res.Decision.OK)
	assert.Equal(t, StatusReviewing, res.Application.Status)
	require.NotNil(t, res.Notification)
	assert.Len(t, n.statusChanges(), 1)

	res, err = svc.UpdateStatus(ctx, a.ID, "pending", nil)
	require.NoError(t, err)
	assert.False(t, res.Decision.OK)
	assert.Equal(t, KindIllegalTransition, res.Decision.Kind)
	assert.Equal(t, []Status{StatusReviewing, StatusApproved, StatusRejected}, res.Decision.Allowed)
	assert.Nil(t, res.Notification)

	res, err = svc.UpdateStatus(ctx, a.ID, "approved", nil)
	require.NoError(t, err)
	assert.True(t, res.Decision.OK)
	assert.Equal(t, StatusApproved, res.Application.Status)

	res, err = svc.UpdateStatus(ctx, a.ID, "reviewing", nil)
	require.NoError(t, err)
	assert.Equal(t, KindIllegalTransition, res.Decision.Kind)

	stored, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.Equal(t, []Status{StatusApproved}, stored.AllowedTransitions)

	changes := n.statusChanges()
	require.Len(t, changes, 2)
	assert.Equal(t, notification.StatusChange{
		ApplicationID: a.ID,
		Status:        "approved",
		Email:         "budi@example.com",
		CustomerName:  "Budi Santoso",
	}, changes[1])
}

func TestService_UpdateStatus_InvalidStatusWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	n := newRecordingNotifier()
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), n)

	mockRepo.EXPECT().GetByID(gomock.Any(), "a-1").Return(Application{ID: "a-1", Status: StatusPending}, nil)

	res, err := svc.UpdateStatus(context.Background(), "a-1", "bogus", nil)
	require.NoError(t, err)
	assert.Equal(t, KindInvalidStatus, res.Decision.Kind)
	assert.Empty(t, n.statusChanges())
}

func TestService_UpdateStatus_ConcurrentUpdate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	n := newRecordingNotifier()
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), n)

	gomock.InOrder(
		mockRepo.EXPECT().GetByID(gomock.Any(), "a-1").Return(Application{ID: "a-1", Status: StatusPending}, nil),
		mockRepo.EXPECT().UpdateStatus(gomock.Any(), "a-1", "pending", StatusReviewing, nil).Return(Application{}, ErrConcurrentUpdate),
	)

	_, err := svc.UpdateStatus(context.Background(), "a-1", "reviewing", nil)
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Empty(t, n.statusChanges())
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), newRecordingNotifier())

	mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(Application{}, ErrNotFound)

	_, err := svc.UpdateStatus(context.Background(), "missing", "reviewing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateStatus_StoredAliasIsComparedRaw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	n := newRecordingNotifier()
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), n)

	stored := Application{ID: "a-1", Status: "under_review", Email: "budi@example.com"}
	mockRepo.EXPECT().GetByID(gomock.Any(), "a-1").Return(stored, nil)
	mockRepo.EXPECT().UpdateStatus(gomock.Any(), "a-1", "under_review", StatusApproved, nil).
		Return(Application{ID: "a-1", Status: StatusApproved, Email: "budi@example.com"}, nil)

	res, err := svc.UpdateStatus(context.Background(), "a-1", "approved", nil)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewing, res.Decision.From)
	assert.Len(t, n.statusChanges(), 1)
}

func TestService_UpdateStatus_SelfTransitionSavesNotesWithoutNotifying(t *testing.T) {
	ctx := context.Background()
	n := newRecordingNotifier()
	svc := NewService(NewMemoryRepo(), NewWorkflow(PolicyAllow), n)

	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	notes := "called customer, waiting for documents"
	res, err := svc.UpdateStatus(ctx, a.ID, "pending", &notes)
	require.NoError(t, err)
	assert.True(t, res.Decision.OK)
	assert.Equal(t, notes, res.Application.AdminNotes)
	assert.Nil(t, res.Notification)
	assert.Empty(t, n.statusChanges())
}

func TestService_UpdateStatus_NotificationFailureKeepsUpdate(t *testing.T) {
	ctx := context.Background()
	n := newRecordingNotifier()
	n.receipt = notification.Receipt{Err: errors.New("smtp: 421 service not available")}
	repo := NewMemoryRepo()
	svc := NewService(repo, NewWorkflow(PolicyAllow), n)

	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	res, err := svc.UpdateStatus(ctx, a.ID, "rejected", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Notification)
	assert.False(t, res.Notification.Success)

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, stored.Status)
}

func TestService_UpdateStatus_RacingWritersNeverBothWinFromSameRead(t *testing.T) {
	ctx := context.Background()
	n := newRecordingNotifier()
	svc := NewService(NewMemoryRepo(), NewWorkflow(PolicyAllow), n)

	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for _, target := range []string{"reviewing", "rejected"} {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			res, err := svc.UpdateStatus(ctx, a.ID, target, nil)
			if err != nil {
				assert.ErrorIs(t, err, ErrConcurrentUpdate)
				return
			}
			if res.Decision.OK {
				mu.Lock()
				applied++
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()

	assert.GreaterOrEqual(t, applied, 1)
	assert.Len(t, n.statusChanges(), applied)
}

func TestService_ListIncludesAliasForReviewing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), nil)

	mockRepo.EXPECT().List(gomock.Any(), Query{
		Statuses: []Status{StatusReviewing, statusUnderReview},
		Limit:    20,
	}).Return([]Application{}, 0, nil)

	_, _, err := svc.List(context.Background(), Query{Statuses: []Status{StatusReviewing}, Limit: 20})
	assert.NoError(t, err)
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo, NewWorkflow(PolicyAllow), nil)

	mockRepo.EXPECT().CountByStatus(gomock.Any()).Return(map[string]int{
		"pending":      3,
		"reviewing":    1,
		"under_review": 2,
		"archived":     4,
	}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.Total)
	assert.Equal(t, map[Status]int{
		StatusPending:   3,
		StatusReviewing: 3,
		StatusApproved:  0,
		StatusRejected:  0,
	}, stats.ByStatus)
}

func TestService_DeleteIgnoresWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := NewService(repo, NewWorkflow(PolicyAllow), nil)

	a, err := svc.Create(ctx, sampleInput())
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, a.ID, "rejected", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.ErrorIs(t, svc.Delete(ctx, a.ID), ErrNotFound)
}
