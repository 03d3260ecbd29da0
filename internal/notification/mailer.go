package notification

import (
	"context"
	"log/slog"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"github.com/frahmantamala/leave-management/internal"
)

// Message is one outbound mail job.
type Message struct {
	To      string
	ToName  string
	Subject string
	Body    string
}

type worker struct {
	id         int
	workerPool chan chan Message
	jobChannel chan Message
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Message, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Message),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case msg := <-w.jobChannel:
				w.logger.Debug("worker sending mail", "worker_id", w.id, "to", msg.To)
				processFunc(msg)
			case <-ctx.Done():
				w.logger.Debug("mail worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// Sender abstracts the SMTP dial for tests.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer dispatches notification mails through a bounded worker pool.
// Delivery is best effort: a full queue or a failed send is logged and
// dropped, never surfaced to the caller.
type Mailer struct {
	cfg    internal.NotificationConfig
	sender Sender
	logger *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewMailer(cfg internal.NotificationConfig, logger *slog.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewMailerWithSender(cfg, dialer, logger)
}

func NewMailerWithSender(cfg internal.NotificationConfig, sender Sender, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	m := &Mailer{
		cfg:        cfg,
		sender:     sender,
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Message, queueSize),
		workerPool: make(chan chan Message, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()
	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			w := newWorker(i, m.workerPool, m.logger)
			w.start(m.ctx, &m.wg, m.send)
		}

		m.wg.Add(1)
		go m.dispatch()

		m.logger.Info("notification worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case msg := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- msg:
				case <-m.ctx.Done():
					return
				}
			case <-m.ctx.Done():
				return
			}
		case <-m.ctx.Done():
			return
		}
	}
}

// Enqueue hands a message to the pool. Disabled notifications and a full
// queue both drop silently apart from a log line.
func (m *Mailer) Enqueue(msg Message) {
	if !m.cfg.Enabled {
		m.logger.Debug("notifications disabled, dropping mail", "to", msg.To, "subject", msg.Subject)
		return
	}

	select {
	case m.jobQueue <- msg:
	default:
		m.logger.Warn("notification queue full, dropping mail", "to", msg.To, "subject", msg.Subject)
	}
}

func (m *Mailer) send(msg Message) {
	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.cfg.FromAddress, m.cfg.FromName)
	mail.SetAddressHeader("To", msg.To, msg.ToName)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)

	if err := m.sender.DialAndSend(mail); err != nil {
		m.logger.Error("failed to send notification mail", "error", err, "to", msg.To, "subject", msg.Subject)
		return
	}
	m.logger.Info("notification mail sent", "to", msg.To, "subject", msg.Subject)
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down notification mailer")
	m.cancel()
	m.wg.Wait()
}
