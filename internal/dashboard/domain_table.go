package dashboard

import (
	"strings"
	"sync"
	"time"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/client"
)

// MaxPageButtons caps the pagination window of the domain table.
const MaxPageButtons = 7

const adminSearchDebounceDelay = 300 * time.Millisecond

// DomainAdminAPI is the slice of the API client the domain table needs.
type DomainAdminAPI interface {
	ListAdminDomains(search string, page int) (*client.AdminDomainPage, error)
	GetAdminDomain(id int) (*domain.Domain, error)
	CreateAdminDomain(req *domain.CreateDomainRequest) (*domain.Domain, error)
	UpdateAdminDomain(id int, req *domain.UpdateDomainRequest) (*domain.Domain, error)
	DeleteAdminDomain(id int) error
}

// DomainForm carries the state of the create/edit modal. Once a domain
// exists its code is frozen: the form keeps showing it but Submit never
// sends it back.
type DomainForm struct {
	ID        int
	Code      string
	Name      string
	APIURL    string
	Username  string
	UserToken string
	LEDomain  string
	Phase     int
	Enabled   bool
}

// Editing reports whether the form mutates an existing domain.
func (f *DomainForm) Editing() bool {
	return f.ID != 0
}

// DomainTable is the admin CRUD view model. The server owns filtering and
// paging; the table holds only the currently displayed page.
type DomainTable struct {
	api DomainAdminAPI

	mu            sync.Mutex
	search        string
	page          int
	current       *client.AdminDomainPage
	isLoading     bool
	pendingDelete int

	searchDebounce *Debouncer
}

func NewDomainTable(api DomainAdminAPI) *DomainTable {
	return &DomainTable{
		api:            api,
		page:           1,
		searchDebounce: NewDebouncer(adminSearchDebounceDelay),
	}
}

// Load fetches the current page from the server. A call while a load is in
// flight is a no-op.
func (t *DomainTable) Load() error {
	t.mu.Lock()
	if t.isLoading {
		t.mu.Unlock()
		return nil
	}
	t.isLoading = true
	search, page := t.search, t.page
	t.mu.Unlock()

	result, err := t.api.ListAdminDomains(search, page)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.isLoading = false
	if err != nil {
		return err
	}

	t.current = result
	t.page = result.Page
	return nil
}

// OnSearchInput feeds one keystroke of the search box. The server re-query
// fires after the input has been quiet for 300ms.
func (t *DomainTable) OnSearchInput(term string, onApply func()) {
	t.searchDebounce.Trigger(func() {
		t.mu.Lock()
		t.search = strings.TrimSpace(term)
		t.page = 1
		t.mu.Unlock()
		if onApply != nil {
			onApply()
		}
	})
}

// SetSearch applies the search term immediately, bypassing the debounce.
func (t *DomainTable) SetSearch(term string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.search = strings.TrimSpace(term)
	t.page = 1
}

// Domains is the currently displayed page of records.
func (t *DomainTable) Domains() []*domain.Domain {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	return t.current.Domains
}

func (t *DomainTable) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return 0
	}
	return t.current.Total
}

func (t *DomainTable) CurrentPage() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

func (t *DomainTable) TotalPages() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalPagesLocked()
}

func (t *DomainTable) totalPagesLocked() int {
	if t.current == nil || t.current.TotalPages < 1 {
		return 1
	}
	return t.current.TotalPages
}

// GoToPage moves to page n, clamped to [1, total pages]. The caller
// reloads afterwards.
func (t *DomainTable) GoToPage(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	last := t.totalPagesLocked()
	if n < 1 {
		n = 1
	}
	if n > last {
		n = last
	}
	t.page = n
}

// PageWindow returns the page numbers to render as buttons: at most
// MaxPageButtons, centered on the current page and clamped to the valid
// range.
func (t *DomainTable) PageWindow() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return PageWindow(t.page, t.totalPagesLocked())
}

// PageWindow computes the button window for any pager: at most
// MaxPageButtons consecutive pages containing current, clamped to
// [1, total].
func PageWindow(current, total int) []int {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	start := current - MaxPageButtons/2
	if start < 1 {
		start = 1
	}
	end := start + MaxPageButtons - 1
	if end > total {
		end = total
		start = end - MaxPageButtons + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		window = append(window, p)
	}
	return window
}

// BeginCreate opens a blank form with the server-side defaults.
func (t *DomainTable) BeginCreate() *DomainForm {
	return &DomainForm{Phase: 1, Enabled: true}
}

// BeginEdit fetches the domain and opens a pre-filled form. The code field
// is shown but frozen.
func (t *DomainTable) BeginEdit(id int) (*DomainForm, error) {
	d, err := t.api.GetAdminDomain(id)
	if err != nil {
		return nil, err
	}

	return &DomainForm{
		ID:        d.ID,
		Code:      d.Code,
		Name:      d.Name,
		APIURL:    d.APIURL,
		Username:  d.Username,
		UserToken: d.UserToken,
		LEDomain:  d.LEDomain,
		Phase:     d.Phase,
		Enabled:   d.Enabled,
	}, nil
}

// Submit persists the form: POST for a new domain, PUT for an existing
// one. Updates never carry the code, so the stored value survives whatever
// the form displays.
func (t *DomainTable) Submit(form *DomainForm) (*domain.Domain, error) {
	if !form.Editing() {
		return t.api.CreateAdminDomain(&domain.CreateDomainRequest{
			Code:      strings.TrimSpace(form.Code),
			Name:      form.Name,
			APIURL:    form.APIURL,
			Username:  form.Username,
			UserToken: form.UserToken,
			LEDomain:  form.LEDomain,
			Phase:     &form.Phase,
			Enabled:   &form.Enabled,
		})
	}

	return t.api.UpdateAdminDomain(form.ID, &domain.UpdateDomainRequest{
		Name:      &form.Name,
		APIURL:    &form.APIURL,
		Username:  &form.Username,
		UserToken: &form.UserToken,
		LEDomain:  &form.LEDomain,
		Phase:     &form.Phase,
		Enabled:   &form.Enabled,
	})
}

// RequestDelete arms the confirmation step for one domain. Nothing is
// deleted until ConfirmDelete.
func (t *DomainTable) RequestDelete(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDelete = id
}

// PendingDelete is the armed domain ID, zero when none.
func (t *DomainTable) PendingDelete() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pendingDelete
}

// CancelDelete disarms the confirmation step.
func (t *DomainTable) CancelDelete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingDelete = 0
}

// ConfirmDelete deletes the armed domain and reloads the page.
func (t *DomainTable) ConfirmDelete() error {
	t.mu.Lock()
	id := t.pendingDelete
	t.pendingDelete = 0
	t.mu.Unlock()

	if id == 0 {
		return nil
	}

	if err := t.api.DeleteAdminDomain(id); err != nil {
		return err
	}
	return t.Load()
}
