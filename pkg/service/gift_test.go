package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelmv/presenteio/pkg/database"
	"github.com/rafaelmv/presenteio/pkg/model"
	"github.com/rafaelmv/presenteio/pkg/notify"
)

// memGifts mimics the storage collaborator's contract: the reserve transition is
// a single guarded compare-and-set under one lock, exactly like the conditional
// UPDATE it stands in for.
type memGifts struct {
	mu    sync.Mutex
	gifts map[string]model.Gift
}

func newMemGifts(gifts ...model.Gift) *memGifts {
	m := &memGifts{gifts: make(map[string]model.Gift)}
	for _, g := range gifts {
		m.gifts[g.ID] = g
	}
	return m
}

func (m *memGifts) Insert(_ context.Context, g *model.Gift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g.ID == "" {
		g.ID = "gift-" + time.Now().Format("150405.000000000")
	}
	m.gifts[g.ID] = *g
	return nil
}

func (m *memGifts) Get(_ context.Context, id string) (model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gifts[id]
	if !ok {
		return model.Gift{}, database.ErrNotFound
	}
	return g, nil
}

func (m *memGifts) ListByList(_ context.Context, listID string) ([]model.Gift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Gift
	for _, g := range m.gifts {
		if g.ListID == listID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGifts) Update(_ context.Context, id, name, description, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gifts[id]
	if !ok {
		return database.ErrNotFound
	}

	// only these three columns, as in the SQL statement
	g.Name = name
	g.Description = description
	g.ImageURL = imageURL
	m.gifts[id] = g
	return nil
}

func (m *memGifts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.gifts[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.gifts, id)
	return nil
}

func (m *memGifts) Reserve(_ context.Context, id, reserverName string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gifts[id]
	if !ok {
		return database.ErrNotFound
	}
	if g.ReserverName != "" {
		return model.ErrAlreadyReserved
	}

	g.ReserverName = reserverName
	t := at
	g.ReservedAt = &t
	m.gifts[id] = g
	return nil
}

func (m *memGifts) Release(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.gifts[id]
	if !ok {
		return database.ErrNotFound
	}

	g.ReserverName = ""
	g.ReservedAt = nil
	m.gifts[id] = g
	return nil
}

type memLists struct {
	mu    sync.Mutex
	lists map[string]model.List
	gifts *memGifts
}

func newMemLists(gifts *memGifts, lists ...model.List) *memLists {
	m := &memLists{lists: make(map[string]model.List), gifts: gifts}
	for _, l := range lists {
		m.lists[l.ID] = l
	}
	return m
}

func (m *memLists) Insert(_ context.Context, l *model.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l.ID == "" {
		l.ID = "list-" + time.Now().Format("150405.000000000")
	}
	m.lists[l.ID] = *l
	return nil
}

func (m *memLists) Get(_ context.Context, id string) (model.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lists[id]
	if !ok {
		return model.List{}, database.ErrNotFound
	}
	return l, nil
}

func (m *memLists) GetPageByOwner(_ context.Context, ownerID string, num, size int) ([]model.List, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.List
	for _, l := range m.lists {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, len(out), nil
}

func (m *memLists) Update(_ context.Context, id, title, description string, public bool, eventDate *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lists[id]
	if !ok {
		return database.ErrNotFound
	}

	l.Title = title
	l.Description = description
	l.Public = public
	l.EventDate = eventDate
	m.lists[id] = l
	return nil
}

func (m *memLists) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	if _, ok := m.lists[id]; !ok {
		m.mu.Unlock()
		return database.ErrNotFound
	}
	delete(m.lists, id)
	m.mu.Unlock()

	// cascade, as the transactional delete does
	gifts, _ := m.gifts.ListByList(ctx, id)
	for _, g := range gifts {
		_ = m.gifts.Delete(ctx, g.ID)
	}
	return nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Reservation
}

func (n *recordingNotifier) ReservationMade(_ context.Context, r notify.Reservation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, r)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

const (
	ownerID    = "owner-1"
	strangerID = "someone-else"
	listID     = "list-1"
	giftID     = "gift-1"
)

func fixture() (*GiftGeneric, *memGifts, *memLists, *recordingNotifier) {
	gifts := newMemGifts(model.Gift{
		Base:   model.Base{ID: giftID, CreatedAt: time.Now()},
		ListID: listID,
		Name:   "Fraldas",
	})
	lists := newMemLists(gifts, model.List{
		Base:       model.Base{ID: listID, CreatedAt: time.Now()},
		OwnerID:    ownerID,
		OwnerEmail: "ana@example.com",
		Title:      "Chá de Bebê da Ana",
		Public:     true,
	})
	notifier := &recordingNotifier{}

	svc := &GiftGeneric{
		GiftRepository: gifts,
		ListRepository: lists,
		Notifier:       notifier,
		BaseURL:        "https://presenteio.example",
	}

	return svc, gifts, lists, notifier
}

func TestReserveFirstGuestWinsSecondConflicts(t *testing.T) {
	svc, _, _, notifier := fixture()
	ctx := context.Background()

	gift, err := svc.Reserve(ctx, giftID, "Ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", gift.ReserverName)
	require.NotNil(t, gift.ReservedAt)

	_, err = svc.Reserve(ctx, giftID, "Beatriz")
	assert.ErrorIs(t, err, model.ErrAlreadyReserved)

	// winner's state is untouched by the losing attempt
	got, err := svc.GiftRepository.Get(ctx, giftID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.ReserverName)

	assert.Equal(t, 1, notifier.count())
}

func TestReserveSameNameAgainStillConflicts(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, giftID, "Ana")
	require.NoError(t, err)

	// no re-reservation, not even under the winner's exact name
	_, err = svc.Reserve(ctx, giftID, "Ana")
	assert.ErrorIs(t, err, model.ErrAlreadyReserved)
}

func TestReserveConcurrentExactlyOneWinner(t *testing.T) {
	svc, gifts, _, notifier := fixture()
	ctx := context.Background()

	const attempts = 50

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      []string
		conflicts int
	)

	start := make(chan struct{})

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			name := "Guest-" + strconv.Itoa(i+1)
			gift, err := svc.Reserve(ctx, giftID, name)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins = append(wins, gift.ReserverName)
			case assert.ErrorIs(t, err, model.ErrAlreadyReserved):
				conflicts++
			}
		}(i)
	}

	close(start)
	wg.Wait()

	require.Len(t, wins, 1, "exactly one attempt must win")
	assert.Equal(t, attempts-1, conflicts)

	got, err := gifts.Get(ctx, giftID)
	require.NoError(t, err)
	assert.Equal(t, wins[0], got.ReserverName, "final state must match the single winner")

	assert.Equal(t, 1, notifier.count())
}

func TestReserveValidationLeavesGiftAvailable(t *testing.T) {
	svc, gifts, _, notifier := fixture()
	ctx := context.Background()

	for _, name := range []string{"", "  ", "a", "<script>x</script>"} {
		_, err := svc.Reserve(ctx, giftID, name)

		var verr *model.ValidationError
		require.ErrorAs(t, err, &verr, "input %q", name)
	}

	got, err := gifts.Get(ctx, giftID)
	require.NoError(t, err)
	assert.False(t, got.Reserved())
	assert.Zero(t, notifier.count())
}

func TestReserveDeletedGiftIsNotFound(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, ownerID, giftID))

	_, err := svc.Reserve(ctx, giftID, "Ana")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestReserveNotifiesOwner(t *testing.T) {
	svc, _, _, notifier := fixture()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, giftID, "Ana")
	require.NoError(t, err)

	require.Equal(t, 1, notifier.count())
	n := notifier.sent[0]
	assert.Equal(t, "Fraldas", n.GiftName)
	assert.Equal(t, "Ana", n.ReserverName)
	assert.Equal(t, "Chá de Bebê da Ana", n.ListTitle)
	assert.Equal(t, "ana@example.com", n.OwnerEmail)
	assert.Equal(t, "https://presenteio.example/l/"+listID, n.ListURL)
}

func TestOwnerUpdateDoesNotTouchReservation(t *testing.T) {
	svc, gifts, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, giftID, "Ana")
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, ownerID, giftID, "Fraldas G", "pacote grande", ""))

	got, err := gifts.Get(ctx, giftID)
	require.NoError(t, err)
	assert.Equal(t, "Fraldas G", got.Name)
	assert.Equal(t, "Ana", got.ReserverName, "metadata edit must not clear the reservation")
	assert.NotNil(t, got.ReservedAt)
}

func TestOwnerMutationsForbiddenForStrangers(t *testing.T) {
	svc, gifts, _, _ := fixture()
	ctx := context.Background()

	assert.ErrorIs(t, svc.Update(ctx, strangerID, giftID, "meu agora", "", ""), model.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, strangerID, giftID), model.ErrForbidden)
	assert.ErrorIs(t, svc.Release(ctx, strangerID, giftID), model.ErrForbidden)

	newGift := model.Gift{ListID: listID, Name: "Babá eletrônica"}
	assert.ErrorIs(t, svc.Create(ctx, strangerID, &newGift), model.ErrForbidden)

	got, err := gifts.Get(ctx, giftID)
	require.NoError(t, err)
	assert.Equal(t, "Fraldas", got.Name, "rejected update must not change anything")
}

func TestOwnerReleaseMakesGiftReservableAgain(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, giftID, "Ana")
	require.NoError(t, err)

	require.NoError(t, svc.Release(ctx, ownerID, giftID))

	// released gifts are claimable again, by anyone
	gift, err := svc.Reserve(ctx, giftID, "Beatriz")
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", gift.ReserverName)
}

func TestOwnerReleaseIdempotent(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	require.NoError(t, svc.Release(ctx, ownerID, giftID))
	require.NoError(t, svc.Release(ctx, ownerID, giftID))
}

func TestCreateGiftValidatesBeforeWriting(t *testing.T) {
	svc, gifts, _, _ := fixture()
	ctx := context.Background()

	g := model.Gift{ListID: listID, Name: "  "}

	var verr *model.ValidationError
	require.ErrorAs(t, svc.Create(ctx, ownerID, &g), &verr)
	assert.Equal(t, "name", verr.Field)

	all, err := gifts.ListByList(ctx, listID)
	require.NoError(t, err)
	assert.Len(t, all, 1, "nothing may be inserted on validation failure")
}
