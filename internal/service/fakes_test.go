package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/notification"
	"go.uber.org/zap"
)

// memDB хранилище в памяти с теми же гарантиями блокировок слота, что и PostgreSQL:
// блокировка, взятая в транзакции, освобождается при её завершении.
// Откат изменений не поддерживается, тесты проверяют отказы до первой записи.
type memDB struct {
	mu sync.Mutex

	users       map[int64]*model.User
	exhibitions map[int64]*model.Exhibition
	bookings    map[int64]*model.Booking
	events      []*model.BookingEvent
	admins      map[int64]*model.Admin
	slotLocks   map[string]*sync.Mutex

	nextUserID    int64
	nextBookingID int64
	nextEventID   int64
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[int64]*model.User),
		exhibitions: make(map[int64]*model.Exhibition),
		bookings:    make(map[int64]*model.Booking),
		admins:      make(map[int64]*model.Admin),
		slotLocks:   make(map[string]*sync.Mutex),
	}
}

func (db *memDB) addExhibition(e model.Exhibition) *model.Exhibition {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.exhibitions[e.ID] = &e
	return &e
}

func (db *memDB) booking(id int64) *model.Booking {
	db.mu.Lock()
	defer db.mu.Unlock()
	b, ok := db.bookings[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (db *memDB) eventsFor(bookingID int64) []*model.BookingEvent {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*model.BookingEvent
	for _, e := range db.events {
		if e.BookingID == bookingID {
			out = append(out, e)
		}
	}
	return out
}

type memTxKey struct{}

type memTx struct {
	unlocks []func()
}

func (db *memDB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}

	tx := &memTx{}
	defer func() {
		for i := len(tx.unlocks) - 1; i >= 0; i-- {
			tx.unlocks[i]()
		}
	}()

	return fn(context.WithValue(ctx, memTxKey{}, tx))
}

type memUsers struct{ db *memDB }

func (s memUsers) Upsert(_ context.Context, identity model.Identity, phone *string) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[identity.TelegramID]
	if !ok {
		s.db.nextUserID++
		u = &model.User{ID: s.db.nextUserID, TelegramID: identity.TelegramID, CreatedAt: time.Now()}
		s.db.users[identity.TelegramID] = u
	}
	u.FirstName = identity.FirstName
	u.LastName = identity.LastName
	u.Username = identity.Username
	u.LanguageCode = identity.LanguageCode
	u.IsPremium = identity.IsPremium
	if phone != nil {
		p := *phone
		u.Phone = &p
	}
	u.UpdatedAt = time.Now()

	cp := *u
	return &cp, nil
}

func (s memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memExhibitions struct{ db *memDB }

func (s memExhibitions) GetActiveByID(ctx context.Context, id int64) (*model.Exhibition, error) {
	e, _ := s.GetByID(ctx, id)
	if e == nil || !e.IsActive {
		return nil, nil
	}
	return e, nil
}

func (s memExhibitions) GetByID(_ context.Context, id int64) (*model.Exhibition, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	e, ok := s.db.exhibitions[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s memExhibitions) ListActive(_ context.Context) ([]*model.Exhibition, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []*model.Exhibition
	for _, e := range s.db.exhibitions {
		if e.IsActive {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memBookings struct{ db *memDB }

func (s memBookings) LockSlot(ctx context.Context, key model.SlotKey) error {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return errors.New("slot lock outside transaction")
	}

	s.db.mu.Lock()
	m, ok := s.db.slotLocks[key.LockKey()]
	if !ok {
		m = &sync.Mutex{}
		s.db.slotLocks[key.LockKey()] = m
	}
	s.db.mu.Unlock()

	m.Lock()
	tx.unlocks = append(tx.unlocks, m.Unlock)
	return nil
}

func (s memBookings) CountActiveInSlot(_ context.Context, key model.SlotKey, excludeID int64) (int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	count := 0
	for _, b := range s.db.bookings {
		slot := b.Slot()
		if slot.ExhibitionID == key.ExhibitionID && slot.Date.Equal(key.Date) && slot.Time == key.Time &&
			b.Status != model.BookingStatusCancelled && b.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (s memBookings) CountActiveByTime(_ context.Context, exhibitionID int64, date time.Time) (map[string]int, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	counts := make(map[string]int)
	for _, b := range s.db.bookings {
		if b.ExhibitionID == exhibitionID && b.BookingDate.Equal(date) && b.Status != model.BookingStatusCancelled {
			counts[b.BookingTime]++
		}
	}
	return counts, nil
}

func (s memBookings) Create(_ context.Context, booking *model.Booking) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.nextBookingID++
	booking.ID = s.db.nextBookingID
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	cp := *booking
	s.db.bookings[cp.ID] = &cp
	return nil
}

func (s memBookings) GetByIDForUpdate(_ context.Context, id int64) (*model.Booking, error) {
	return s.db.booking(id), nil
}

func (s memBookings) UpdateSchedule(_ context.Context, id int64, date time.Time, slotTime string) (*model.Booking, error) {
	return s.mutate(id, func(b *model.Booking) bool {
		b.BookingDate = date
		b.BookingTime = slotTime
		return true
	}), nil
}

func (s memBookings) CancelByOwner(_ context.Context, id, userID int64) (*model.Booking, error) {
	return s.mutate(id, func(b *model.Booking) bool {
		if b.UserID != userID || !b.Status.CancellableByOwner() {
			return false
		}
		b.Status = model.BookingStatusCancelled
		return true
	}), nil
}

func (s memBookings) UpdateStatus(_ context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	return s.mutate(id, func(b *model.Booking) bool {
		b.Status = status
		return true
	}), nil
}

func (s memBookings) Delete(_ context.Context, id int64) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.bookings[id]; !ok {
		return false, nil
	}
	delete(s.db.bookings, id)
	return true, nil
}

func (s memBookings) ListByTelegramID(_ context.Context, telegramID int64, statuses []model.BookingStatus, limit int) ([]*model.BookingView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[telegramID]
	if !ok {
		return []*model.BookingView{}, nil
	}

	views := make([]*model.BookingView, 0)
	for _, b := range s.db.bookings {
		if b.UserID != u.ID || !statusIn(b.Status, statuses) {
			continue
		}
		views = append(views, s.viewLocked(b))
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].BookingDate.Equal(views[j].BookingDate) {
			return views[i].BookingDate.After(views[j].BookingDate)
		}
		return views[i].BookingTime > views[j].BookingTime
	})

	if limit > 0 && len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}

func (s memBookings) ListFiltered(_ context.Context, filter model.BookingFilter) ([]*model.BookingView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	views := make([]*model.BookingView, 0)
	for _, b := range s.db.bookings {
		if filter.DateFrom != nil && b.BookingDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && b.BookingDate.After(*filter.DateTo) {
			continue
		}
		if filter.ExhibitionID != nil && b.ExhibitionID != *filter.ExhibitionID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		views = append(views, s.viewLocked(b))
	}

	sort.Slice(views, func(i, j int) bool {
		if !views[i].BookingDate.Equal(views[j].BookingDate) {
			return views[i].BookingDate.Before(views[j].BookingDate)
		}
		return views[i].BookingTime < views[j].BookingTime
	})
	return views, nil
}

func (s memBookings) GetView(_ context.Context, id int64) (*model.BookingView, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, nil
	}
	return s.viewLocked(b), nil
}

func (s memBookings) Stats(_ context.Context, today time.Time) (*model.BookingStats, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var stats model.BookingStats
	for _, b := range s.db.bookings {
		if b.BookingDate.Equal(today) {
			stats.TodayBookings++
			if b.Status == model.BookingStatusConfirmed {
				stats.TodayConfirmed++
			}
		}
		if b.Status == model.BookingStatusConfirmed && !b.BookingDate.Before(today) {
			stats.UpcomingTotal++
		}
		if b.Status == model.BookingStatusCompleted {
			stats.TotalCompleted++
		}
	}
	return &stats, nil
}

func (s memBookings) ClaimDueReminders(_ context.Context, date time.Time) ([]model.ReminderTarget, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	var targets []model.ReminderTarget
	now := time.Now()
	for _, b := range s.db.bookings {
		if !b.BookingDate.Equal(date) || b.Status != model.BookingStatusConfirmed || b.RemindedAt != nil {
			continue
		}
		b.RemindedAt = &now
		targets = append(targets, model.ReminderTarget{
			BookingID:      b.ID,
			TelegramID:     s.telegramIDLocked(b.UserID),
			ExhibitionName: s.db.exhibitions[b.ExhibitionID].Name,
			BookingDate:    b.BookingDate,
			BookingTime:    b.BookingTime,
		})
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].BookingID < targets[j].BookingID })
	return targets, nil
}

func (s memBookings) mutate(id int64, fn func(b *model.Booking) bool) *model.Booking {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.bookings[id]
	if !ok || !fn(b) {
		return nil
	}
	b.UpdatedAt = time.Now()
	cp := *b
	return &cp
}

func (s memBookings) viewLocked(b *model.Booking) *model.BookingView {
	v := &model.BookingView{Booking: *b}
	if e, ok := s.db.exhibitions[b.ExhibitionID]; ok {
		v.ExhibitionName = e.Name
		v.ExhibitionPrice = e.Price
	}
	for _, u := range s.db.users {
		if u.ID == b.UserID {
			v.TelegramID = u.TelegramID
			v.FirstName = u.FirstName
			v.Username = u.Username
			v.UserPhone = u.Phone
		}
	}
	return v
}

func (s memBookings) telegramIDLocked(userID int64) int64 {
	for _, u := range s.db.users {
		if u.ID == userID {
			return u.TelegramID
		}
	}
	return 0
}

func statusIn(status model.BookingStatus, statuses []model.BookingStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type memEvents struct{ db *memDB }

func (s memEvents) Create(_ context.Context, event *model.BookingEvent) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.nextEventID++
	event.ID = s.db.nextEventID
	event.CreatedAt = time.Now()
	cp := *event
	s.db.events = append(s.db.events, &cp)
	return nil
}

func (s memEvents) ListByBookingID(_ context.Context, bookingID int64) ([]*model.BookingEvent, error) {
	return s.db.eventsFor(bookingID), nil
}

type memAdmins struct{ db *memDB }

func (s memAdmins) GetByTelegramID(_ context.Context, telegramID int64) (*model.Admin, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	a, ok := s.db.admins[telegramID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (s memAdmins) Ensure(_ context.Context, telegramIDs []int64) (int64, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var added int64
	for _, id := range telegramIDs {
		if _, ok := s.db.admins[id]; ok {
			continue
		}
		s.db.admins[id] = &model.Admin{TelegramID: id, AdminLevel: 1, CreatedAt: time.Now()}
		added++
	}
	return added, nil
}

// recordingQueue копит задачи, чтобы тест мог выполнить их сам
type recordingQueue struct {
	mu    sync.Mutex
	names []string
	tasks []notification.Task
}

func (q *recordingQueue) Enqueue(name string, task notification.Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.names = append(q.names, name)
	q.tasks = append(q.tasks, task)
	return true
}

func (q *recordingQueue) runAll(ctx context.Context) {
	q.mu.Lock()
	tasks := append([]notification.Task(nil), q.tasks...)
	q.mu.Unlock()
	for _, t := range tasks {
		_ = t(ctx)
	}
}

func (q *recordingQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

type sentNotice struct {
	kind       string
	telegramID int64
	details    notification.Details
}

// recordingNotifier запоминает отправленные уведомления, failFor задаёт получателей с ошибкой
type recordingNotifier struct {
	mu      sync.Mutex
	sent    []sentNotice
	failFor map[int64]bool
}

func (n *recordingNotifier) NotifyConfirmed(_ context.Context, telegramID int64, details notification.Details) error {
	return n.record("confirmed", telegramID, details)
}

func (n *recordingNotifier) NotifyReminder(_ context.Context, telegramID int64, details notification.Details) error {
	return n.record("reminder", telegramID, details)
}

func (n *recordingNotifier) record(kind string, telegramID int64, details notification.Details) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failFor[telegramID] {
		return errors.New("telegram unavailable")
	}
	n.sent = append(n.sent, sentNotice{kind: kind, telegramID: telegramID, details: details})
	return nil
}

type testEnv struct {
	db       *memDB
	queue    *recordingQueue
	notifier *recordingNotifier
	bookings *BookingService
	admin    *AdminService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	queue := &recordingQueue{}
	notifier := &recordingNotifier{}
	logger := zap.NewNop()

	return &testEnv{
		db:       db,
		queue:    queue,
		notifier: notifier,
		bookings: NewBookingService(db, memUsers{db}, memExhibitions{db}, memBookings{db}, memEvents{db}, notifier, queue, time.Second, logger),
		admin:    NewAdminService(memBookings{db}, memEvents{db}, memAdmins{db}, time.UTC, logger),
	}
}

var everyDay = []int{0, 1, 2, 3, 4, 5, 6}

func guest(id int64) model.Identity {
	return model.Identity{TelegramID: id, FirstName: "Гость", Username: "guest", LanguageCode: "ru"}
}
