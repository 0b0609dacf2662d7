package domainadmin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository/mocks"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
)

func newTestService(t *testing.T) (Administrator, *mocks.MockDomainRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	repo := mocks.NewMockDomainRepository(ctrl)
	return NewService(repo), repo
}

func validCreateRequest() *domain.CreateDomainRequest {
	return &domain.CreateDomainRequest{
		Code:      "alpha",
		Name:      "Alpha",
		APIURL:    "https://api.example.com",
		Username:  "user@example.com",
		UserToken: "token",
		LEDomain:  "alpha.example.com",
	}
}

func TestListDomains_FixedPageSize(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().
		ListPaged("alpha", 2, DefaultPerPage, true).
		Return(&domain.DomainPage{Page: 2, PerPage: DefaultPerPage}, nil)

	page, err := service.ListDomains("alpha", 2)
	require.NoError(t, err)
	assert.Equal(t, DefaultPerPage, page.PerPage)
}

func TestListDomains_PageBelowOneBecomesOne(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().
		ListPaged("", 1, DefaultPerPage, true).
		Return(&domain.DomainPage{Page: 1}, nil)

	_, err := service.ListDomains("", -4)
	require.NoError(t, err)
}

func TestGetDomain_NotFound(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByID(7).Return(nil, nil)

	_, err := service.GetDomain(7)
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestCreateDomain(t *testing.T) {
	service, repo := newTestService(t)

	req := validCreateRequest()
	req.Name = "  Alpha  "

	repo.EXPECT().GetByCode("alpha").Return(nil, nil)
	repo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(d *domain.Domain) (*domain.Domain, error) {
			assert.Equal(t, "alpha", d.Code)
			assert.Equal(t, "Alpha", d.Name, "fields are trimmed")
			assert.Equal(t, 1, d.Phase, "phase defaults to 1")
			assert.True(t, d.Enabled, "enabled defaults to true")
			d.ID = 1
			return d, nil
		})

	created, err := service.CreateDomain(req)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestCreateDomain_ExplicitPhaseAndEnabled(t *testing.T) {
	service, repo := newTestService(t)

	phase := 3
	enabled := false
	req := validCreateRequest()
	req.Phase = &phase
	req.Enabled = &enabled

	repo.EXPECT().GetByCode("alpha").Return(nil, nil)
	repo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(d *domain.Domain) (*domain.Domain, error) {
			assert.Equal(t, 3, d.Phase)
			assert.False(t, d.Enabled)
			return d, nil
		})

	_, err := service.CreateDomain(req)
	require.NoError(t, err)
}

func TestCreateDomain_MissingFields(t *testing.T) {
	service, _ := newTestService(t)

	req := validCreateRequest()
	req.Code = ""
	req.LEDomain = "   "

	_, err := service.CreateDomain(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFields)
	assert.Contains(t, err.Error(), "code")
	assert.Contains(t, err.Error(), "le_domain")
}

func TestCreateDomain_DuplicateCode(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByCode("alpha").Return(&domain.Domain{ID: 1, Code: "alpha"}, nil)

	_, err := service.CreateDomain(validCreateRequest())
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestUpdateDomain_AppliesOnlyProvidedFields(t *testing.T) {
	service, repo := newTestService(t)

	existing := &domain.Domain{
		ID:       1,
		Code:     "alpha",
		Name:     "Alpha",
		APIURL:   "https://api.example.com",
		Username: "user@example.com",
		Phase:    1,
		Enabled:  true,
	}

	name := "Alpha Renamed"
	code := "tampered"

	repo.EXPECT().GetByID(1).Return(existing, nil)
	repo.EXPECT().
		Update(gomock.Any()).
		DoAndReturn(func(d *domain.Domain) error {
			assert.Equal(t, "Alpha Renamed", d.Name)
			assert.Equal(t, "alpha", d.Code, "code stays frozen")
			assert.Equal(t, "user@example.com", d.Username, "omitted fields stay put")
			return nil
		})
	repo.EXPECT().GetByID(1).Return(existing, nil)

	_, err := service.UpdateDomain(&domain.UpdateDomainRequest{
		ID:   1,
		Code: &code,
		Name: &name,
	})
	require.NoError(t, err)
}

func TestUpdateDomain_NotFound(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().GetByID(9).Return(nil, nil)

	_, err := service.UpdateDomain(&domain.UpdateDomainRequest{ID: 9})
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestDeleteDomain(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().Delete(3).Return(true, nil)
	assert.NoError(t, service.DeleteDomain(3))
}

func TestDeleteDomain_NotFound(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().Delete(3).Return(false, nil)
	assert.ErrorIs(t, service.DeleteDomain(3), ErrDomainNotFound)
}

func TestDeleteDomain_RepoError(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().Delete(3).Return(false, errors.New("connection lost"))
	assert.EqualError(t, service.DeleteDomain(3), "connection lost")
}
