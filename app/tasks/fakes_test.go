package tasks

import (
	"context"
	"errors"
	"sync"

	"github.com/asellingson28/ytmail/app/database"
	"github.com/asellingson28/ytmail/app/feed"
)

type fakeFetcher struct {
	mu     sync.Mutex
	items  map[string]*feed.Item
	errs   map[string]error
	calls  []string
	active int
	peak   int
	block  chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		items: make(map[string]*feed.Item),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) FetchLatest(ctx context.Context, channelID string) (*feed.Item, error) {
	f.mu.Lock()
	f.calls = append(f.calls, channelID)
	f.active++
	if f.active > f.peak {
		f.peak = f.active
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active--

	if err := f.errs[channelID]; err != nil {
		return nil, &feed.FetchError{ChannelID: channelID, Err: err}
	}
	if item := f.items[channelID]; item != nil {
		copied := *item
		return &copied, nil
	}
	return nil, nil
}

type fakeStore struct {
	mu        sync.Mutex
	records   map[string]database.SeenRecord
	hasErr    error
	recordErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]database.SeenRecord)}
}

func (s *fakeStore) HasSeen(ctx context.Context, channelID, itemID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasErr != nil {
		return false, &database.StoreError{Op: "check seen item", Err: s.hasErr}
	}
	_, ok := s.records[channelID+"/"+itemID]
	return ok, nil
}

func (s *fakeStore) Record(ctx context.Context, record database.SeenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recordErr != nil {
		return &database.StoreError{Op: "record seen item", Err: s.recordErr}
	}
	key := record.ChannelID + "/" + record.ItemID
	if _, ok := s.records[key]; !ok {
		s.records[key] = record
	}
	return nil
}

func (s *fakeStore) holdsItem(itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ItemID == itemID {
			return true
		}
	}
	return false
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type notification struct {
	channelName string
	item        feed.Item
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []notification
	err   error
	store *fakeStore
	// recordedFirst captures whether the store held the item when Notify ran
	recordedFirst []bool
}

func (n *fakeNotifier) Notify(ctx context.Context, channelName string, item feed.Item) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.store != nil {
		n.recordedFirst = append(n.recordedFirst, n.store.holdsItem(item.ID))
	}

	n.sent = append(n.sent, notification{channelName: channelName, item: item})
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

var errNetwork = errors.New("network unreachable")
