package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/shoplist/internal/item"
	"github.com/muurk/shoplist/internal/itemstore"
	"github.com/muurk/shoplist/internal/shopping"
)

type flakyStore struct {
	*itemstore.MemoryStore
	createErr, updateErr error
}

func (s *flakyStore) Create(ctx context.Context, d item.Draft) (item.Item, error) {
	if s.createErr != nil {
		return item.Item{}, s.createErr
	}
	return s.MemoryStore.Create(ctx, d)
}

func (s *flakyStore) Update(ctx context.Context, it item.Item) (item.Item, error) {
	if s.updateErr != nil {
		return item.Item{}, s.updateErr
	}
	return s.MemoryStore.Update(ctx, it)
}

func newTestModel(t *testing.T) (Model, *flakyStore) {
	t.Helper()
	store := &flakyStore{MemoryStore: itemstore.NewMemoryStore(item.Seed())}
	list := shopping.New(store)
	n := list.Load(context.Background())
	require.NotEqual(t, shopping.SeverityError, n.Severity)

	return New(list, Options{Currency: "$", Source: "memory", Width: 100, Height: 30, SkipLoad: true}), store
}

func press(m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(m Model, s string) Model {
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func clearInput(m Model) Model {
	for n := 0; n < 16; n++ {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return m
}

func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

// step delivers the result of cmd and returns the follow-up command
func step(t *testing.T, m Model, cmd tea.Cmd) (Model, tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	next, follow := m.Update(cmd())
	return next.(Model), follow
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestCursorMovement(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyDown, keyDown, keyRight)
	assert.Equal(t, 2, m.Row)
	assert.Equal(t, 1, m.Col)

	// Wraps across the three editable columns
	m, _ = press(m, keyRight, keyRight)
	assert.Equal(t, 0, m.Col)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Row)
}

func TestZeroQuantityIsReverted(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyRight, keyEnter)
	require.True(t, m.Editing)
	assert.True(t, m.List().Editing(1, item.FieldQuantity))

	m = clearInput(m)
	m = typeText(m, "0")
	m, cmd := press(m, keyEnter)

	assert.Nil(t, cmd, "rejected values never reach the store")
	assert.False(t, m.Editing)
	it, ok := m.List().Find(1)
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, shopping.SeverityError, m.Notice().Severity)
	assert.Equal(t, "Edit Rejected", m.Notice().Summary)
	assert.False(t, m.List().Editing(1, item.FieldQuantity))
}

func TestNonNumericQuantityIsReverted(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "lots")
	m, cmd := press(m, keyEnter)

	assert.Nil(t, cmd)
	it, _ := m.List().Find(1)
	assert.Equal(t, 1, it.Quantity)
}

func TestPriceEditCommits(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, keyRight, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "12.50")
	m, cmd := press(m, keyEnter)

	// Shown optimistically while the update is in flight
	it, _ := m.List().Find(1)
	assert.Equal(t, "12.5", it.Price.String())
	assert.True(t, m.Busy())

	m = deliver(t, m, cmd)
	assert.False(t, m.Busy())
	assert.Equal(t, "Item Updated", m.Notice().Summary)

	stored, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "12.50", stored.Price.StringFixed(2))
	assert.Contains(t, m.View(), "12.50")
}

func TestFailedUpdateRollsBack(t *testing.T) {
	m, store := newTestModel(t)
	store.updateErr = itemstore.NewHTTPError("update", 500, "boom")

	m, _ = press(m, keyRight, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "12.50")
	m, cmd := press(m, keyEnter)
	m = deliver(t, m, cmd)

	it, _ := m.List().Find(1)
	assert.Equal(t, "7.00", it.Price.StringFixed(2))
	assert.Equal(t, shopping.SeverityError, m.Notice().Severity)
	assert.Equal(t, "Update Failed", m.Notice().Summary)
}

func TestUnchangedValueIsStillSaved(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyEnter)
	m, cmd := press(m, keyEnter)
	m = deliver(t, m, cmd)

	assert.Equal(t, "Item Updated", m.Notice().Summary)
	it, _ := m.List().Find(1)
	assert.Equal(t, "Books", it.Name)
}

func TestTabCommitsAndMovesRight(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyEnter)
	m = clearInput(m)
	m = typeText(m, "Novels")
	m, cmd := press(m, keyTab)

	assert.False(t, m.Editing)
	assert.Equal(t, 1, m.Col)
	m = deliver(t, m, cmd)

	it, _ := m.List().Find(1)
	assert.Equal(t, "Novels", it.Name)
}

func TestEscCancelsEdit(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyEnter)
	m = typeText(m, " and more")
	m, cmd := press(m, keyEsc)

	assert.Nil(t, cmd)
	assert.False(t, m.Editing)
	it, _ := m.List().Find(1)
	assert.Equal(t, "Books", it.Name)
	assert.Equal(t, "Edit Cancelled", m.Notice().Summary)
}

func TestAddItem(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runeKey('a'))
	require.True(t, m.ShowingForm)

	m = typeText(m, "Milk")
	m, _ = press(m, keyTab)
	m = clearInput(m)
	m = typeText(m, "2")
	m, _ = press(m, keyTab)
	m = typeText(m, "3.5")
	m, cmd := press(m, keyEnter)

	assert.False(t, m.ShowingForm)
	m = deliver(t, m, cmd)

	assert.Equal(t, 6, m.List().Len())
	assert.Equal(t, 5, m.Row)
	assert.Equal(t, "Item Added", m.Notice().Summary)
	items := m.List().Items()
	assert.Equal(t, "Milk", items[5].Name)
	assert.Equal(t, 2, items[5].Quantity)
}

func TestAddItemKeepsFormOpenWhenInvalid(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, runeKey('a'))
	m, cmd := press(m, keyEnter)

	assert.Nil(t, cmd)
	assert.True(t, m.ShowingForm)
	assert.Equal(t, "Failed to Add Item", m.Notice().Summary)
	assert.Equal(t, 5, m.List().Len())

	m, _ = press(m, keyEsc)
	assert.False(t, m.ShowingForm)
}

func TestAddItemStoreFailure(t *testing.T) {
	m, store := newTestModel(t)
	store.createErr = itemstore.NewHTTPError("create", 503, "unavailable")

	m, _ = press(m, runeKey('a'))
	m = typeText(m, "Milk")
	m, _ = press(m, keyTab, keyTab)
	m = typeText(m, "3.5")
	m, cmd := press(m, keyEnter)
	m = deliver(t, m, cmd)

	assert.Equal(t, 5, m.List().Len())
	assert.Equal(t, shopping.SeverityError, m.Notice().Severity)
}

func TestDeleteItem(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyDown, keyDown, keyDown, keyDown)
	m, cmd := press(m, runeKey('d'))
	m = deliver(t, m, cmd)

	assert.Equal(t, 4, m.List().Len())
	assert.Equal(t, 3, m.Row, "cursor stays on the list")
	_, ok := m.List().Find(5)
	assert.False(t, ok)
	assert.Equal(t, "Item Removed", m.Notice().Summary)
}

func TestLoadFailureEmptiesList(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(loadedMsg{err: itemstore.NewNetworkError("list", "GET failed", errors.New("reset"))})
	m = next.(Model)

	assert.Equal(t, 0, m.List().Len())
	assert.Equal(t, "Failed to load items", m.Notice().Summary)
	assert.Contains(t, m.View(), "No items yet")
}

func TestInitLoadsFromStore(t *testing.T) {
	store := itemstore.NewMemoryStore(item.Seed())
	m := New(shopping.New(store), Options{Width: 100, Height: 30})

	assert.NotNil(t, m.Init())

	m = deliver(t, m, loadCmd(store, DefaultRequestTimeout))
	assert.Equal(t, 5, m.List().Len())
}

func TestEventReloadsUnlessEditing(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(EventMsg{Type: "updated", ID: 1})
	assert.NotNil(t, cmd)

	m, _ = press(m, keyEnter)
	next, cmd := m.Update(EventMsg{Type: "updated", ID: 1})
	m = next.(Model)
	assert.Nil(t, cmd)

	// The reload waits for the edit and its update
	m, cmd = press(m, keyEnter)
	m, cmd = step(t, m, cmd)
	assert.Equal(t, "Item Updated", m.Notice().Summary)
	require.NotNil(t, cmd)
	_, ok := cmd().(loadedMsg)
	assert.True(t, ok)
}

func TestAddCompletingMidEditKeepsEditedCell(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, runeKey('a'))
	m = typeText(m, "Milk")
	m, _ = press(m, keyTab, keyTab)
	m = typeText(m, "3.5")
	m, addCmd := press(m, keyEnter)

	// Books quantity is opened before the create returns
	m, _ = press(m, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "4")
	m = deliver(t, m, addCmd)

	require.Equal(t, 6, m.List().Len())
	assert.True(t, m.Editing)
	assert.Equal(t, 0, m.Row)
	id, f, editing := m.EditingCell()
	assert.True(t, editing)
	assert.Equal(t, 1, id)
	assert.Equal(t, item.FieldQuantity, f)

	m, cmd := press(m, keyEnter)
	m = deliver(t, m, cmd)

	books, err := store.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 4, books.Quantity)
	milk := m.List().Items()[5]
	assert.Equal(t, "Milk", milk.Name)
	assert.Equal(t, 1, milk.Quantity)
	assert.False(t, m.List().Editing(1, item.FieldQuantity))
	assert.False(t, m.List().Editing(milk.ID, item.FieldQuantity))
}

func TestDeleteCompletingMidEditFollowsEditedItem(t *testing.T) {
	m, store := newTestModel(t)

	m, delCmd := press(m, runeKey('d'))

	// Shoes quantity is opened before Books is removed
	m, _ = press(m, keyDown, keyDown, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "5")
	m = deliver(t, m, delCmd)

	require.Equal(t, 4, m.List().Len())
	assert.True(t, m.Editing)
	assert.Equal(t, 1, m.Row, "cursor follows Shoes up one row")
	assert.Contains(t, m.View(), "Juice")

	m, cmd := press(m, keyEnter)
	m = deliver(t, m, cmd)

	shoes, err := store.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 5, shoes.Quantity)
	bananas, _ := m.List().Find(4)
	assert.Equal(t, 1, bananas.Quantity)
	assert.False(t, m.List().Editing(3, item.FieldQuantity))
	assert.False(t, m.List().Editing(4, item.FieldQuantity))
}

func TestDeletingEditedItemClosesEditor(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyDown)
	m, delCmd := press(m, runeKey('d'))
	m, _ = press(m, keyEnter)
	m = typeText(m, " box")
	require.True(t, m.Editing)

	m = deliver(t, m, delCmd)

	assert.False(t, m.Editing)
	_, ok := m.List().Find(2)
	assert.False(t, ok)
	assert.False(t, m.List().Editing(2, item.FieldName))
	assert.Equal(t, "Item Removed", m.Notice().Summary)
}

func TestLoadDuringEditIsDeferred(t *testing.T) {
	m, store := newTestModel(t)

	m, _ = press(m, keyEnter)
	m = clearInput(m)
	m = typeText(m, "Novels")

	items, err := store.List(context.Background())
	require.NoError(t, err)
	next, cmd := m.Update(loadedMsg{items: items})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.Editing)
	assert.True(t, m.List().Editing(1, item.FieldName))
	assert.Equal(t, "Novels", m.input.Value())

	m, cmd = press(m, keyEnter)
	m, cmd = step(t, m, cmd)
	assert.Equal(t, "Item Updated", m.Notice().Summary)

	// The skipped load is fetched again once the update is settled
	m = deliver(t, m, cmd)
	it, _ := m.List().Find(1)
	assert.Equal(t, "Novels", it.Name)
	assert.False(t, m.Busy())
}

func TestLoadDuringUpdateKeepsRollback(t *testing.T) {
	m, store := newTestModel(t)
	store.updateErr = itemstore.NewHTTPError("update", 500, "boom")

	m, _ = press(m, keyRight, keyRight, keyEnter)
	m = clearInput(m)
	m = typeText(m, "12.50")
	m, sendCmd := press(m, keyEnter)

	// Another client has bumped the quantity meanwhile
	items, err := store.List(context.Background())
	require.NoError(t, err)
	items[0].Quantity = 3
	next, cmd := m.Update(loadedMsg{items: items})
	m = next.(Model)
	assert.Nil(t, cmd)
	it, _ := m.List().Find(1)
	assert.Equal(t, 1, it.Quantity)

	m, cmd = step(t, m, sendCmd)
	it, _ = m.List().Find(1)
	assert.Equal(t, "7.00", it.Price.StringFixed(2))
	assert.Equal(t, "Update Failed", m.Notice().Summary)
	assert.False(t, m.List().Editing(1, item.FieldPrice))

	require.NotNil(t, cmd, "the skipped load is fetched again")
	_, ok := cmd().(loadedMsg)
	assert.True(t, ok)
}

func TestNoReeditWhileUpdateInFlight(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, keyEnter)
	m = clearInput(m)
	m = typeText(m, "Novels")
	m, sendCmd := press(m, keyEnter)

	m, cmd := press(m, keyEnter)
	assert.Nil(t, cmd)
	assert.False(t, m.Editing)
	assert.Equal(t, "Still Saving", m.Notice().Summary)

	// Other cells of the item stay editable
	m, _ = press(m, keyRight, keyEnter)
	assert.True(t, m.Editing)
	m, _ = press(m, keyEsc)

	m = deliver(t, m, sendCmd)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyLeft}, keyEnter)
	assert.True(t, m.Editing)
	assert.Equal(t, "Novels", m.input.Value())
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := press(m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	// q is text while editing; ctrl+c always quits
	m, _ = press(m, keyEnter)
	m = typeText(m, "q")
	assert.True(t, m.Editing)
	_, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewShowsItemsAndTotal(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	for _, name := range []string{"Books", "Juice", "Shoes", "Bananas", "Iron"} {
		assert.Contains(t, view, name)
	}
	assert.Contains(t, view, "$29.00")
	assert.True(t, strings.Contains(view, AppName))
}
