package handlers

import (
	"fieldops/internal/notify"
	"fieldops/internal/storage"
)

// зависимости хендлеров, задаются один раз при старте
var (
	photoStore *storage.Store
	pusher     *notify.Pusher
	emailer    *notify.EmailSender
)

func Setup(store *storage.Store, push *notify.Pusher, email *notify.EmailSender) {
	photoStore = store
	pusher = push
	emailer = email
}
