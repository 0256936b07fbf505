package app

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/robertjmccarthy/snagged-it-lite-sub000/internal/store"
)

// memStore is an in-memory dataStore with the same conditional-update
// semantics as the Postgres implementation, so the lifecycle logic can be
// exercised without a database.
type memStore struct {
	mu sync.Mutex

	users     map[string]store.User
	items     []store.ChecklistItem
	progress  map[string]store.UserProgress
	snagLists map[string]store.SnagList
	snags     map[string]store.Snag
	shares    map[string]store.ShareRequest
}

func newMemStore() *memStore {
	return &memStore{
		users:     map[string]store.User{},
		progress:  map[string]store.UserProgress{},
		snagLists: map[string]store.SnagList{},
		snags:     map[string]store.Snag{},
		shares:    map[string]store.ShareRequest{},
	}
}

func progressKey(userID, categorySlug string) string {
	return userID + "/" + categorySlug
}

func (m *memStore) CreateUser(_ context.Context, user store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return store.User{}, sql.ErrNoRows
}

func (m *memStore) GetUserByID(_ context.Context, userID string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[userID]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (m *memStore) ListChecklistItems(_ context.Context, categorySlug string) ([]store.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.ChecklistItem
	for _, item := range m.items {
		if item.CategorySlug == categorySlug {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *memStore) GetChecklistItem(_ context.Context, itemID string) (store.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return store.ChecklistItem{}, sql.ErrNoRows
}

func (m *memStore) GetChecklistItemByStep(_ context.Context, categorySlug string, displayOrder int) (store.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.CategorySlug == categorySlug && item.DisplayOrder == displayOrder {
			return item, nil
		}
	}
	return store.ChecklistItem{}, sql.ErrNoRows
}

func (m *memStore) CountChecklistItems(_ context.Context, categorySlug string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, item := range m.items {
		if item.CategorySlug == categorySlug {
			count++
		}
	}
	return count, nil
}

func (m *memStore) InsertChecklistItem(_ context.Context, item store.ChecklistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
	return nil
}

func (m *memStore) GetProgress(_ context.Context, userID, categorySlug string) (store.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	progress, ok := m.progress[progressKey(userID, categorySlug)]
	if !ok {
		return store.UserProgress{}, sql.ErrNoRows
	}
	return progress, nil
}

// UpsertProgress mirrors the GREATEST / OR upsert: the step never moves
// backwards and completion never clears.
func (m *memStore) UpsertProgress(_ context.Context, userID, categorySlug string, targetStep int, complete bool) (store.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey(userID, categorySlug)
	progress, ok := m.progress[key]
	if !ok {
		progress = store.UserProgress{UserID: userID, CategorySlug: categorySlug}
	}
	if targetStep > progress.CurrentStep {
		progress.CurrentStep = targetStep
	}
	progress.IsComplete = progress.IsComplete || complete
	progress.UpdatedAt = time.Now()
	m.progress[key] = progress
	return progress, nil
}

func (m *memStore) GetActiveSnagList(_ context.Context, userID string) (store.SnagList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.snagLists {
		if list.UserID == userID && list.IsActive {
			return list, nil
		}
	}
	return store.SnagList{}, sql.ErrNoRows
}

func (m *memStore) LatestSnagList(_ context.Context, userID string) (store.SnagList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest store.SnagList
	found := false
	for _, list := range m.snagLists {
		if list.UserID != userID {
			continue
		}
		if !found || list.CreatedAt.After(latest.CreatedAt) {
			latest = list
			found = true
		}
	}
	if !found {
		return store.SnagList{}, sql.ErrNoRows
	}
	return latest, nil
}

func (m *memStore) ListSnagLists(_ context.Context, userID string) ([]store.SnagList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.SnagList
	for _, list := range m.snagLists {
		if list.UserID == userID {
			out = append(out, list)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) GetSnagList(_ context.Context, listID string) (store.SnagList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.snagLists[listID]
	if !ok {
		return store.SnagList{}, sql.ErrNoRows
	}
	return list, nil
}

func (m *memStore) GetSnagListByShareID(_ context.Context, shareID string) (store.SnagList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.snagLists {
		if list.ShareID != nil && *list.ShareID == shareID {
			return list, nil
		}
	}
	return store.SnagList{}, sql.ErrNoRows
}

func (m *memStore) InsertSnagList(_ context.Context, list store.SnagList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snagLists[list.ID] = list
	return nil
}

func (m *memStore) DeactivateSnagLists(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, list := range m.snagLists {
		if list.UserID == userID && list.IsActive {
			list.IsActive = false
			m.snagLists[id] = list
		}
	}
	return nil
}

func (m *memStore) ActivateSnagList(_ context.Context, userID, listID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.snagLists[listID]
	if !ok || list.UserID != userID {
		return sql.ErrNoRows
	}
	list.IsActive = true
	m.snagLists[listID] = list
	return nil
}

func (m *memStore) SetSnagListPaymentStatus(_ context.Context, listID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.snagLists[listID]
	if !ok {
		return sql.ErrNoRows
	}
	list.PaymentStatus = status
	m.snagLists[listID] = list
	return nil
}

// FinalizeSnagList mirrors the shared_at IS NULL guard: only the first
// caller links the list.
func (m *memStore) FinalizeSnagList(_ context.Context, listID, shareID, address, builderName, builderEmail string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.snagLists[listID]
	if !ok || list.SharedAt != nil {
		return false, nil
	}
	now := time.Now()
	list.ShareID = &shareID
	list.Address = address
	list.BuilderName = builderName
	list.BuilderEmail = builderEmail
	list.SharedAt = &now
	list.PaymentStatus = ""
	m.snagLists[listID] = list
	return true, nil
}

func (m *memStore) InsertSnag(_ context.Context, snag store.Snag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snags[snag.ID] = snag
	return nil
}

func (m *memStore) ListSnags(_ context.Context, listID string) ([]store.Snag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Snag
	for _, snag := range m.snags {
		if snag.SnagListID == listID {
			out = append(out, snag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) InsertShareRequest(_ context.Context, share store.ShareRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares[share.ID] = share
	return nil
}

func (m *memStore) GetShareRequest(_ context.Context, shareID string) (store.ShareRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[shareID]
	if !ok {
		return store.ShareRequest{}, sql.ErrNoRows
	}
	return share, nil
}

// MarkShareRequestPaid mirrors the status <> Paid conditional update.
func (m *memStore) MarkShareRequestPaid(_ context.Context, shareID, paymentReference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[shareID]
	if !ok || share.Status == store.ShareStatusPaid {
		return false, nil
	}
	share.Status = store.ShareStatusPaid
	share.PaymentIntentID = paymentReference
	m.shares[shareID] = share
	return true, nil
}

func (m *memStore) MarkShareRequestFailed(_ context.Context, shareID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	share, ok := m.shares[shareID]
	if !ok || share.Status != store.ShareStatusPending {
		return false, nil
	}
	share.Status = store.ShareStatusFailed
	m.shares[shareID] = share
	return true, nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func (m *memStore) activeListCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, list := range m.snagLists {
		if list.UserID == userID && list.IsActive {
			count++
		}
	}
	return count
}
