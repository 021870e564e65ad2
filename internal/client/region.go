package client

import "sync"

// Region is the patchable surface of one widget instance. The
// controller addresses entries by item id only, never by a live node
// reference, so a fragment removed mid-flight is simply skipped.
type Region interface {
	// HasItem reports whether the fragment for the item still
	// exists in the region.
	HasItem(id int64) bool

	// PrependItem puts a new fragment at the top of the list.
	PrependItem(id int64, html string)

	// ReplaceItem swaps the fragment of an existing item in place.
	ReplaceItem(id int64, html string)

	// RemoveItem drops the fragment of the item.
	RemoveItem(id int64)

	// SetList replaces the whole list with freshly rendered markup.
	SetList(html string)

	// SetInputDisabled toggles the add-form text input.
	SetInputDisabled(disabled bool)

	// SetPlaceholder updates the add-form placeholder hint.
	SetPlaceholder(hint string)

	// ShowAddFailure switches the submit affordance into its danger
	// state. It stays there until the page is reloaded.
	ShowAddFailure()
}

// FragmentRegion is the concrete Region: an ordered list of item
// fragments plus the add-form state.
type FragmentRegion struct {
	mu            sync.Mutex
	order         []int64
	fragments     map[int64]string
	listHTML      string
	inputDisabled bool
	placeholder   string
	addFailed     bool
}

func NewFragmentRegion() *FragmentRegion {
	return &FragmentRegion{
		fragments: make(map[int64]string),
	}
}

func (r *FragmentRegion) HasItem(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.fragments[id]
	return ok
}

func (r *FragmentRegion) PrependItem(id int64, html string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fragments[id]; !ok {
		r.order = append([]int64{id}, r.order...)
	}
	r.fragments[id] = html
}

func (r *FragmentRegion) ReplaceItem(id int64, html string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fragments[id]; !ok {
		return
	}
	r.fragments[id] = html
}

func (r *FragmentRegion) RemoveItem(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fragments[id]; !ok {
		return
	}
	delete(r.fragments, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *FragmentRegion) SetList(html string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listHTML = html
	r.order = nil
	r.fragments = make(map[int64]string)
}

func (r *FragmentRegion) SetInputDisabled(disabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputDisabled = disabled
}

func (r *FragmentRegion) SetPlaceholder(hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placeholder = hint
}

func (r *FragmentRegion) ShowAddFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addFailed = true
}

// Snapshot accessors, mostly for tests and for embedding hosts that
// serialize the region back into a page.

func (r *FragmentRegion) ItemIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *FragmentRegion) ItemHTML(id int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fragments[id]
}

func (r *FragmentRegion) ListHTML() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listHTML
}

func (r *FragmentRegion) InputDisabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputDisabled
}

func (r *FragmentRegion) Placeholder() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.placeholder
}

func (r *FragmentRegion) AddFailed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addFailed
}
