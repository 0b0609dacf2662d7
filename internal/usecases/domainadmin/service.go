package domainadmin

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/insightbridge/campaign-dashboard-api/infrastructure/repository"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/log"
)

// DefaultPerPage is the fixed page size of the admin domain table.
const DefaultPerPage = 15

type Administrator interface {
	ListDomains(search string, page int) (*domain.DomainPage, error)
	GetDomain(id int) (*domain.Domain, error)
	CreateDomain(req *domain.CreateDomainRequest) (*domain.Domain, error)
	UpdateDomain(req *domain.UpdateDomainRequest) (*domain.Domain, error)
	DeleteDomain(id int) error
	ListEnabled() ([]*domain.Domain, error)
}

type Service struct {
	domainRepo repository.DomainRepository
}

func NewService(domainRepo repository.DomainRepository) Administrator {
	return &Service{
		domainRepo: domainRepo,
	}
}

// ListDomains returns one page of domains, filtered by a search term
// matching name, code or landing domain. Disabled domains are included
// since the admin table manages them too.
func (s *Service) ListDomains(search string, page int) (*domain.DomainPage, error) {
	if page < 1 {
		page = 1
	}

	return s.domainRepo.ListPaged(search, page, DefaultPerPage, true)
}

func (s *Service) GetDomain(id int) (*domain.Domain, error) {
	d, err := s.domainRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDomainNotFound
	}

	return d, nil
}

func (s *Service) ListEnabled() ([]*domain.Domain, error) {
	return s.domainRepo.ListEnabled()
}

func (s *Service) CreateDomain(req *domain.CreateDomainRequest) (*domain.Domain, error) {
	var missing []string
	for field, value := range map[string]string{
		"code":      req.Code,
		"name":      req.Name,
		"api_url":   req.APIURL,
		"username":  req.Username,
		"usertoken": req.UserToken,
		"le_domain": req.LEDomain,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	existing, err := s.domainRepo.GetByCode(req.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateCode
	}

	d := &domain.Domain{
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		APIURL:    strings.TrimSpace(req.APIURL),
		Username:  strings.TrimSpace(req.Username),
		UserToken: strings.TrimSpace(req.UserToken),
		LEDomain:  strings.TrimSpace(req.LEDomain),
		Phase:     1,
		Enabled:   true,
	}

	if req.Phase != nil {
		d.Phase = *req.Phase
	}
	if req.Enabled != nil {
		d.Enabled = *req.Enabled
	}

	created, err := s.domainRepo.Create(d)
	if err != nil {
		return nil, err
	}

	log.L.Infof("domain %s (%s) created", created.Name, created.Code)

	return created, nil
}

// UpdateDomain applies the non-nil fields of the request. The code field
// is ignored even when present, it is frozen after creation.
func (s *Service) UpdateDomain(req *domain.UpdateDomainRequest) (*domain.Domain, error) {
	d, err := s.domainRepo.GetByID(req.ID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDomainNotFound
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.APIURL != nil {
		d.APIURL = *req.APIURL
	}
	if req.Username != nil {
		d.Username = *req.Username
	}
	if req.UserToken != nil {
		d.UserToken = *req.UserToken
	}
	if req.LEDomain != nil {
		d.LEDomain = *req.LEDomain
	}
	if req.Phase != nil {
		d.Phase = *req.Phase
	}
	if req.Enabled != nil {
		d.Enabled = *req.Enabled
	}

	if err := s.domainRepo.Update(d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDomainNotFound
		}
		return nil, err
	}

	return s.domainRepo.GetByID(req.ID)
}

// DeleteDomain removes a domain; its campaigns cascade away with it.
func (s *Service) DeleteDomain(id int) error {
	deleted, err := s.domainRepo.Delete(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDomainNotFound
	}

	log.L.Infof("domain %d deleted", id)

	return nil
}
