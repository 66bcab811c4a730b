package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
)

// Lending event types
const (
	EventLoanIssued   = "loan.issued"
	EventLoanReturned = "loan.returned"
	EventLoansOverdue = "loan.overdue"
)

// DefaultSubjectPrefix prefixes every published subject
const DefaultSubjectPrefix = "library.loans"

// LoanEvent is the JSON payload published for lending events
type LoanEvent struct {
	Type       string            `json:"type"`
	LoanID     uint              `json:"loan_id,omitempty"`
	BookID     uint              `json:"book_id,omitempty"`
	MemberID   uint              `json:"member_id,omitempty"`
	Status     domain.LoanStatus `json:"status,omitempty"`
	DueDate    string            `json:"due_date,omitempty"`
	ReturnDate string            `json:"return_date,omitempty"`
	Fine       float64           `json:"fine,omitempty"`
	Count      int64             `json:"count,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NotificationService publishes lending events to NATS
type NotificationService struct {
	conn          *nats.Conn
	subjectPrefix string
	enabled       bool
}

// NewNotificationService connects to NATS at url.
// An empty url returns a disabled service that drops every event.
func NewNotificationService(url, subjectPrefix string) (*NotificationService, error) {
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	if url == "" {
		return &NotificationService{subjectPrefix: subjectPrefix}, nil
	}

	conn, err := nats.Connect(url,
		nats.Name("library-lending"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Printf("✅ NATS connected [%s]", conn.ConnectedUrl())
	return &NotificationService{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		enabled:       true,
	}, nil
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// Close drains pending messages and closes the connection
func (s *NotificationService) Close() {
	if !s.enabled {
		return
	}
	if err := s.conn.Drain(); err != nil {
		log.Printf("⚠️ NATS drain error: %v", err)
	}
}

// publish sends an event; failures are logged and swallowed
func (s *NotificationService) publish(subject string, event LoanEvent) {
	if !s.enabled {
		return
	}

	data, err := jsoniter.Marshal(event)
	if err != nil {
		log.Printf("❌ Encode %s event error: %v", event.Type, err)
		return
	}

	if err := s.conn.Publish(s.subjectPrefix+"."+subject, data); err != nil {
		log.Printf("❌ Publish %s event error: %v", event.Type, err)
	}
}

// NotifyLoanIssued publishes a loan.issued event
func (s *NotificationService) NotifyLoanIssued(ctx context.Context, loan *models.Loan) {
	s.publish("issued", loanEvent(EventLoanIssued, loan))
}

// NotifyLoanReturned publishes a loan.returned event
func (s *NotificationService) NotifyLoanReturned(ctx context.Context, loan *models.Loan) {
	s.publish("returned", loanEvent(EventLoanReturned, loan))
}

// NotifyLoansOverdue publishes a loan.overdue event with the sweep result
func (s *NotificationService) NotifyLoansOverdue(ctx context.Context, count int64, asOf time.Time) {
	s.publish("overdue", LoanEvent{
		Type:       EventLoansOverdue,
		Status:     domain.LoanStatusOverdue,
		DueDate:    domain.FormatDate(asOf),
		Count:      count,
		OccurredAt: time.Now().UTC(),
	})
}

func loanEvent(eventType string, loan *models.Loan) LoanEvent {
	event := LoanEvent{
		Type:       eventType,
		LoanID:     loan.ID,
		BookID:     loan.BookID,
		MemberID:   loan.MemberID,
		Status:     loan.Status,
		DueDate:    domain.FormatDate(loan.DueDate),
		Fine:       loan.Fine,
		OccurredAt: time.Now().UTC(),
	}
	if loan.ReturnDate != nil {
		event.ReturnDate = domain.FormatDate(*loan.ReturnDate)
	}
	return event
}
