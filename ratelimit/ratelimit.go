// Package ratelimit реализует фиксированные окна подсчёта запросов по IP.
// Состояние живёт в памяти процесса: после рестарта счётчики обнуляются, между
// инстансами ничего не шарится. Для горизонтального масштабирования Store
// выносится во внешний кеш, сами call sites при этом не меняются.
package ratelimit

import (
	"sync"
	"time"
)

// UnknownKey — общий ключ для запросов без определимого IP. Все такие клиенты
// делят один бюджет.
const UnknownKey = "unknown"

// Entry — счётчик одного актора в одном окне.
type Entry struct {
	Count       int
	WindowStart time.Time
}

// Store — хранилище счётчиков одного окна. Реализация обязана быть безопасной
// для конкурентного доступа.
type Store interface {
	Get(key string) (Entry, bool)
	Set(key string, e Entry)
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore возвращает процесс-локальное хранилище счётчиков.
// Записи не вычищаются: ключей столько, сколько уникальных IP за жизнь
// процесса, для текущего масштаба это приемлемо.
func NewMemoryStore() Store {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (s *memoryStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *memoryStore) Set(key string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
}

// Window — один порог: не больше Limit запросов за Duration.
type Window struct {
	Limit    int
	Duration time.Duration
	store    Store
}

// Limiter проверяет актора сразу по нескольким окнам, от самого короткого к
// самому длинному. У каждого call site (результаты, комментарии) свой Limiter
// со своим состоянием.
type Limiter struct {
	windows []Window
	now     func() time.Time
}

// Option настраивает Limiter при создании.
type Option func(*Limiter)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// WithStores подменяет хранилища окон, по одному на окно в том же порядке.
// Количество должно совпадать с количеством окон, иначе паника при создании.
func WithStores(stores ...Store) Option {
	return func(l *Limiter) {
		if len(stores) != len(l.windows) {
			panic("ratelimit: store count does not match window count")
		}
		for i := range l.windows {
			l.windows[i].store = stores[i]
		}
	}
}

// New создаёт Limiter с данными окнами. Окна проверяются в переданном порядке,
// поэтому их следует передавать от минутного к суточному.
func New(windows []Window, opts ...Option) *Limiter {
	l := &Limiter{
		windows: make([]Window, len(windows)),
		now:     time.Now,
	}
	copy(l.windows, windows)
	for i := range l.windows {
		l.windows[i].store = NewMemoryStore()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow сообщает, пропущен ли запрос актора key.
//
// Каждое окно независимо: если запись отсутствует или окно истекло, счётчик
// сбрасывается в {1, now}. Если счётчик уже упёрся в лимит, проверка
// прерывается сразу — более длинные окна для этой попытки НЕ инкрементируются.
// Отклонённый запрос засчитывается только окну, которое его поймало.
func (l *Limiter) Allow(key string) bool {
	if key == "" {
		key = UnknownKey
	}
	now := l.now()

	for _, w := range l.windows {
		entry, ok := w.store.Get(key)
		if !ok || now.Sub(entry.WindowStart) > w.Duration {
			w.store.Set(key, Entry{Count: 1, WindowStart: now})
			continue
		}
		if entry.Count >= w.Limit {
			return false
		}
		entry.Count++
		w.store.Set(key, entry)
	}
	return true
}

// ThreeWindows — обычная конфигурация минута/час/сутки.
func ThreeWindows(perMinute, perHour, perDay int) []Window {
	return []Window{
		{Limit: perMinute, Duration: time.Minute},
		{Limit: perHour, Duration: time.Hour},
		{Limit: perDay, Duration: 24 * time.Hour},
	}
}
