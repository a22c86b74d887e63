package notify

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// общий http-клиент для исходящих вызовов
var httpClient = &http.Client{
	Timeout: time.Second * 10,
}

// Pusher шлёт push-уведомления через внешнюю функцию.
// Доставка best-effort: ошибка пишется в лог и никогда не влияет
// на основную операцию.
type Pusher struct {
	URL    string
	Client *http.Client
}

func NewPusher(url string) *Pusher {
	return &Pusher{URL: url, Client: httpClient}
}

type pushRequest struct {
	UserIDs []uint            `json:"user_ids"`
	Title   string            `json:"title"`
	Body    string            `json:"body"`
	Data    map[string]string `json:"data,omitempty"`
}

// Send уходит в фоновую горутину — транзакция статуса к этому
// моменту уже завершена и от результата отправки не зависит.
func (p *Pusher) Send(userIDs []uint, title, body string, data map[string]string) {
	if p == nil || p.URL == "" || len(userIDs) == 0 {
		return
	}

	go func() {
		payload, err := json.Marshal(pushRequest{
			UserIDs: userIDs,
			Title:   title,
			Body:    body,
			Data:    data,
		})
		if err != nil {
			log.Printf("push: failed to marshal payload: %v", err)
			return
		}

		resp, err := p.Client.Post(p.URL, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Printf("push: send failed: %v", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("push: function returned status %d", resp.StatusCode)
		}
	}()
}
