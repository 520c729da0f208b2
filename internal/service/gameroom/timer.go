package gameroom

import (
	"context"
	"log"
	"time"
)

// Broadcaster отправляет событие всем подключениям комнаты
type Broadcaster interface {
	BroadcastToRoom(topic string, event interface{}) error
}

// Timer управляет серверным обратным отсчетом вопроса в комнате.
// На игру существует не больше одного отсчета: повторный запуск отменяет
// предыдущий через функцию отмены в сессии.
type Timer struct {
	broadcaster Broadcaster
}

// NewTimer создает новый таймер комнат
func NewTimer(broadcaster Broadcaster) *Timer {
	return &Timer{broadcaster: broadcaster}
}

// Start запускает обратный отсчет на seconds секунд для сессии
func (t *Timer) Start(ctx context.Context, session *Session, seconds int) {
	timerCtx, cancel := context.WithCancel(ctx)
	session.SetTimerCancel(cancel)

	go t.run(timerCtx, session, seconds)
}

// run тикает раз в секунду, рассылая оставшееся время в комнату
func (t *Timer) run(ctx context.Context, session *Session, seconds int) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	secondsLeft := seconds
	for {
		select {
		case <-ticker.C:
			secondsLeft--
			if secondsLeft <= 0 {
				log.Printf("[Timer] Игра #%d: время вышло", session.GameID)
				if err := t.broadcaster.BroadcastToRoom(session.Topic, map[string]interface{}{
					"message": "timer:expired",
				}); err != nil {
					log.Printf("[Timer] Игра #%d: ошибка рассылки: %v", session.GameID, err)
				}
				return
			}

			if err := t.broadcaster.BroadcastToRoom(session.Topic, map[string]interface{}{
				"message":      "timer:tick",
				"seconds_left": secondsLeft,
			}); err != nil {
				log.Printf("[Timer] Игра #%d: ошибка рассылки: %v", session.GameID, err)
			}

		case <-ctx.Done():
			log.Printf("[Timer] Игра #%d: отсчет отменен", session.GameID)
			return
		}
	}
}
