package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"lendingapi/internal/notification"
)

// Notifier is told about new applications and committed status changes.
// Its outcome is informational only.
type Notifier interface {
	ApplicationReceived(ctx context.Context, r notification.Received) notification.Receipt
	StatusChanged(ctx context.Context, c notification.StatusChange) notification.Receipt
}

type Service struct {
	repo     Repository
	workflow *Workflow
	notifier Notifier

	// background tracks confirmation emails still being sent.
	background sync.WaitGroup
}

func NewService(repo Repository, workflow *Workflow, notifier Notifier) *Service {
	return &Service{repo: repo, workflow: workflow, notifier: notifier}
}

// CreateInput is a customer submission; status is not accepted from outside.
type CreateInput struct {
	FullName    string
	Email       string
	Phone       string
	CompanyName string
	LoanType    string
	LoanAmount  int64
	TenorMonths int
	Purpose     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Application, error) {
	a := Application{
		FullName:    strings.TrimSpace(in.FullName),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:       strings.TrimSpace(in.Phone),
		CompanyName: strings.TrimSpace(in.CompanyName),
		LoanType:    in.LoanType,
		LoanAmount:  in.LoanAmount,
		TenorMonths: in.TenorMonths,
		Purpose:     strings.TrimSpace(in.Purpose),
		Status:      StatusPending,
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}

	if s.notifier != nil {
		received := notification.Received{
			ApplicationID: a.ID,
			Email:         a.Email,
			CustomerName:  a.FullName,
			LoanType:      a.LoanType,
			LoanAmount:    a.LoanAmount,
			TenorMonths:   a.TenorMonths,
		}
		sendCtx := context.WithoutCancel(ctx)
		s.background.Add(1)
		go func() {
			defer s.background.Done()
			s.notifier.ApplicationReceived(sendCtx, received)
		}()
	}
	return a, nil
}

// Wait blocks until every confirmation email started by Create has finished,
// or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Detail is an application plus the statuses it may move to next.
type Detail struct {
	Application
	AllowedTransitions []Status `json:"allowed_transitions"`
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Application: a, AllowedTransitions: s.workflow.AllowedTargets(string(a.Status))}, nil
}

// List returns one page of applications. A reviewing filter also matches rows
// still stored as under_review.
func (s *Service) List(ctx context.Context, q Query) ([]Application, int, error) {
	if containsStatus(q.Statuses, StatusReviewing) && !containsStatus(q.Statuses, statusUnderReview) {
		q.Statuses = append(append([]Status(nil), q.Statuses...), statusUnderReview)
	}
	return s.repo.List(ctx, q)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats counts per recognised status. Rows under an unrecognised status only
// contribute to Total.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	out := Stats{ByStatus: make(map[Status]int, len(Statuses))}
	for _, st := range Statuses {
		out.ByStatus[st] = 0
	}
	for raw, n := range counts {
		out.Total += n
		if st, ok, _ := normalize(raw); ok {
			out.ByStatus[st] += n
		}
	}
	return out, nil
}

// StatusUpdate is the result of UpdateStatus. When Decision.OK is false nothing
// was written. Notification is nil unless a notification was attempted.
type StatusUpdate struct {
	Application  Application
	Decision     Decision
	Notification *notification.Receipt
}

// UpdateStatus moves the application to requested if the workflow allows it.
// The write only lands if the status has not changed since it was read.
func (s *Service) UpdateStatus(ctx context.Context, id, requested string, notes *string) (StatusUpdate, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return StatusUpdate{}, err
	}

	decision := s.workflow.RequestTransition(string(current.Status), requested)
	if !decision.OK {
		return StatusUpdate{Application: current, Decision: decision}, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(current.Status), decision.To, notes)
	if err != nil {
		return StatusUpdate{}, err
	}
	log.Printf("application status changed: id=%s from=%s to=%s", id, decision.From, decision.To)

	out := StatusUpdate{Application: updated, Decision: decision}
	if decision.From == decision.To || s.notifier == nil {
		return out, nil
	}

	receipt := s.notifier.StatusChanged(ctx, notification.StatusChange{
		ApplicationID: updated.ID,
		Status:        string(updated.Status),
		Email:         updated.Email,
		CustomerName:  updated.FullName,
	})
	out.Notification = &receipt
	return out, nil
}
