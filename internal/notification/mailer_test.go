package notification_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomail "gopkg.in/gomail.v2"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/notification"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

// fakeSender records sent mails instead of dialing SMTP
type fakeSender struct {
	mu    sync.Mutex
	mails []*gomail.Message
	fail  bool
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return context.DeadlineExceeded
	}
	f.mails = append(f.mails, m...)
	return nil
}

func (f *fakeSender) sent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.mails)
}

func (f *fakeSender) subject(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mails[i].GetHeader("Subject")[0]
}

type fakeDirectory struct {
	recipients map[int64]*notification.Recipient
}

func (f *fakeDirectory) RecipientByID(userID int64) (*notification.Recipient, error) {
	r, ok := f.recipients[userID]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return r, nil
}

var _ = Describe("Mailer", func() {
	var (
		mailer *notification.Mailer
		sender *fakeSender
		logger *slog.Logger
	)

	cfg := internal.NotificationConfig{
		Enabled:     true,
		FromName:    "Leave Management",
		FromAddress: "noreply@company.com",
		MaxWorkers:  2,
		QueueSize:   10,
	}

	BeforeEach(func() {
		sender = &fakeSender{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = notification.NewMailerWithSender(cfg, sender, logger)
	})

	AfterEach(func() {
		mailer.Shutdown()
	})

	It("delivers an enqueued message through the pool", func() {
		mailer.Enqueue(notification.Message{
			To: "ana@company.com", ToName: "Ana", Subject: "hello", Body: "hi",
		})

		Eventually(sender.sent, time.Second).Should(Equal(1))
	})

	It("drops messages when notifications are disabled", func() {
		disabled := cfg
		disabled.Enabled = false
		off := notification.NewMailerWithSender(disabled, sender, logger)
		defer off.Shutdown()

		off.Enqueue(notification.Message{To: "ana@company.com", Subject: "hello"})

		Consistently(sender.sent, 100*time.Millisecond).Should(Equal(0))
	})
})

var _ = Describe("EventHandler", func() {
	var (
		mailer    *notification.Mailer
		sender    *fakeSender
		directory *fakeDirectory
		handler   *notification.EventHandler
	)

	cfg := internal.NotificationConfig{
		Enabled:     true,
		FromName:    "Leave Management",
		FromAddress: "noreply@company.com",
		MaxWorkers:  2,
		QueueSize:   10,
	}

	managerID := int64(7)

	BeforeEach(func() {
		sender = &fakeSender{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = notification.NewMailerWithSender(cfg, sender, logger)
		directory = &fakeDirectory{recipients: map[int64]*notification.Recipient{
			7:  {Name: "Bruno Costa", Email: "bruno@company.com"},
			42: {Name: "Ana Silva", Email: "ana@company.com"},
		}}
		handler = notification.NewEventHandler(mailer, directory, logger)
	})

	AfterEach(func() {
		mailer.Shutdown()
	})

	It("mails the new user their initial password", func() {
		evt := events.NewUserCreatedEvent(42, "Ana Silva", "ana@company.com", "employee", "secret123")

		Expect(handler.HandleUserCreated(context.Background(), evt)).To(Succeed())

		Eventually(sender.sent, time.Second).Should(Equal(1))
		Expect(sender.subject(0)).To(ContainSubstring("Welcome"))
	})

	It("mails the manager on submission", func() {
		evt := events.NewLeaveSubmittedEvent(1, 42, "Ana Silva", &managerID,
			"Casual Leave", time.Now(), time.Now().AddDate(0, 0, 2), "trip", 3)

		Expect(handler.HandleLeaveSubmitted(context.Background(), evt)).To(Succeed())

		Eventually(sender.sent, time.Second).Should(Equal(1))
		Expect(sender.subject(0)).To(ContainSubstring("Ana Silva"))
	})

	It("skips the submission mail when no manager is assigned", func() {
		evt := events.NewLeaveSubmittedEvent(1, 42, "Ana Silva", nil,
			"Casual Leave", time.Now(), time.Now().AddDate(0, 0, 2), "trip", 3)

		Expect(handler.HandleLeaveSubmitted(context.Background(), evt)).To(Succeed())

		Consistently(sender.sent, 100*time.Millisecond).Should(Equal(0))
	})

	It("mails the employee on a decision", func() {
		evt := events.NewLeaveDecidedEvent(1, 42, 7, "Bruno Costa",
			"Casual Leave", time.Now(), time.Now().AddDate(0, 0, 2), "approved", "enjoy")

		Expect(handler.HandleLeaveDecided(context.Background(), evt)).To(Succeed())

		Eventually(sender.sent, time.Second).Should(Equal(1))
		Expect(sender.subject(0)).To(ContainSubstring("approved"))
	})
})
