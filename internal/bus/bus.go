package bus

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Topic — имя потока событий внутри процесса.
type Topic string

const (
	// TopicCartChanged публикуется после каждой мутации корзины.
	TopicCartChanged Topic = "cart.changed"
	// TopicOrdersChanged публикуется при создании заказа и смене статуса.
	TopicOrdersChanged Topic = "orders.changed"
	// TopicFavoritesChanged публикуется при изменении набора избранного.
	TopicFavoritesChanged Topic = "favorites.changed"
	// TopicMiniPlayerChanged публикуется при изменении состояния миниплеера.
	TopicMiniPlayerChanged Topic = "miniplayer.changed"
)

// Event — уведомление об изменении агрегата.
type Event struct {
	Topic      Topic
	Payload    any
	OccurredAt time.Time
}

// Bus — внутрипроцессная шина подписки на изменения хранилищ.
// Заменяет прежний механизм синхронизации экранов через периодическое
// чтение durable storage: хранилище публикует событие на каждой мутации,
// заинтересованная сторона подписывается и отписывается явно.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic]map[int]chan Event
	nextID int
	logger *log.Entry
}

// New создаёт пустую шину.
func New(logger *log.Entry) *Bus {
	if logger == nil {
		logger = log.WithField("component", "bus")
	}
	return &Bus{
		subs:   make(map[Topic]map[int]chan Event),
		logger: logger,
	}
}

// Subscribe возвращает канал событий темы и функцию отписки.
// Функцию отписки необходимо вызвать при размонтировании подписчика,
// после её вызова канал закрывается.
func (b *Bus) Subscribe(topic Topic, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch
	b.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish рассылает событие всем подписчикам темы. Отправка неблокирующая:
// событие для подписчика с переполненным буфером отбрасывается, свежие
// состояния читаются из самого хранилища.
func (b *Bus) Publish(topic Topic, payload any) {
	event := Event{Topic: topic, Payload: payload, OccurredAt: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			b.logger.WithField("topic", string(topic)).Debug("подписчик не успевает, событие пропущено")
		}
	}
}

// SubscriberCount возвращает число активных подписчиков темы.
func (b *Bus) SubscriberCount(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
