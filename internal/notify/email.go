package notify

import (
	"errors"
	"fmt"
	"html"
	"net/smtp"
	"regexp"
	"sync"
	"time"
)

var (
	ErrBadEmail    = errors.New("некорректный email")
	ErrBadAmount   = errors.New("сумма вне допустимого диапазона")
	ErrRateLimited = errors.New("слишком много писем на этот адрес, попробуйте позже")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	maxAmount     = 1_000_000
	rateWindow    = 60 * time.Second
	ratePerWindow = 3
)

// EmailSender отправляет клиенту письмо о подписанной смете.
// send подменяется в тестах; по умолчанию — net/smtp.
type EmailSender struct {
	Addr string
	From string

	send func(addr, from, to, subject, body string) error

	mu    sync.Mutex
	sent  map[string][]time.Time // адрес -> времена отправок в окне
	clock func() time.Time
}

func NewEmailSender(addr, from string) *EmailSender {
	return &EmailSender{
		Addr:  addr,
		From:  from,
		send:  smtpSend,
		sent:  make(map[string][]time.Time),
		clock: time.Now,
	}
}

// SendQuoteEmail валидирует вход, ограничивает частоту (3 письма
// на адрес за 60 секунд) и экранирует все подставляемые строки.
func (s *EmailSender) SendQuoteEmail(to, customerName string, quoteID uint, amount float64, signature string) error {
	if !emailRe.MatchString(to) {
		return ErrBadEmail
	}
	if amount <= 0 || amount > maxAmount {
		return ErrBadAmount
	}
	if !s.allow(to) {
		return ErrRateLimited
	}

	subject := fmt.Sprintf("Смета №%d подписана", quoteID)
	body := fmt.Sprintf(
		"<p>Здравствуйте, %s!</p><p>Смета №%d на сумму %.2f ₽ подписана.</p><p>Подпись: %s</p>",
		html.EscapeString(customerName),
		quoteID,
		amount,
		html.EscapeString(signature),
	)

	return s.send(s.Addr, s.From, to, subject, body)
}

// allow — скользящее окно на 60 секунд
func (s *EmailSender) allow(to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	recent := s.sent[to][:0]
	for _, t := range s.sent[to] {
		if now.Sub(t) < rateWindow {
			recent = append(recent, t)
		}
	}
	if len(recent) >= ratePerWindow {
		s.sent[to] = recent
		return false
	}
	s.sent[to] = append(recent, now)
	return true
}

func smtpSend(addr, from, to, subject, body string) error {
	if addr == "" {
		// почта не настроена — считаем успешной no-op отправкой
		return nil
	}
	msg := []byte("From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + body + "\r\n")
	return smtp.SendMail(addr, nil, from, []string{to}, msg)
}
