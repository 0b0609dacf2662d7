package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/insightbridge/campaign-dashboard-api/infrastructure/database/postgres"
	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/lib/pq"
)

const (
	domainsTable = "domains d"
)

type DomainRepository interface {
	GetByID(id int) (*domain.Domain, error)
	GetByCode(code string) (*domain.Domain, error)
	ListEnabled() ([]*domain.Domain, error)
	ListPaged(search string, page, perPage int, includeDisabled bool) (*domain.DomainPage, error)
	Create(d *domain.Domain) (*domain.Domain, error)
	Update(d *domain.Domain) error
	Delete(id int) (bool, error)
	Upsert(d *domain.Domain) error
}

type domainRepository struct {
	conn *postgres.Connection
}

func NewDomainRepository(conn *postgres.Connection) DomainRepository {
	return &domainRepository{
		conn: conn,
	}
}

const domainColumns = "d.id, d.code, d.name, d.api_url, d.username, d.usertoken, d.le_domain, d.phase, d.enabled, d.created_at, d.updated_at"

func (r *domainRepository) GetByID(id int) (*domain.Domain, error) {
	return r.getDomain(squirrel.Eq{"d.id": id})
}

func (r *domainRepository) GetByCode(code string) (*domain.Domain, error) {
	return r.getDomain(squirrel.Eq{"d.code": code})
}

func (r *domainRepository) getDomain(whereClause map[string]interface{}) (*domain.Domain, error) {
	query, args, err := squirrel.
		Select(domainColumns).
		From(domainsTable).
		Where(whereClause).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	d, err := r.scanDomain(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return d, nil
}

func (r *domainRepository) scanDomain(row *sql.Row) (*domain.Domain, error) {
	d := &domain.Domain{}

	if err := row.Scan(
		&d.ID,
		&d.Code,
		&d.Name,
		&d.APIURL,
		&d.Username,
		&d.UserToken,
		&d.LEDomain,
		&d.Phase,
		&d.Enabled,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return d, nil
}

func (r *domainRepository) ListEnabled() ([]*domain.Domain, error) {
	query, args, err := squirrel.
		Select(domainColumns).
		From(domainsTable).
		Where(squirrel.Eq{"d.enabled": true}).
		OrderBy("d.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	return r.collectDomains(rows)
}

// ListPaged returns one page of the admin listing. Search matches name,
// code, le_domain and username case-insensitively; the requested page is
// clamped to [1, total_pages].
func (r *domainRepository) ListPaged(search string, page, perPage int, includeDisabled bool) (*domain.DomainPage, error) {
	where := squirrel.And{}
	if !includeDisabled {
		where = append(where, squirrel.Eq{"d.enabled": true})
	}
	if search != "" {
		like := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"d.name": like},
			squirrel.ILike{"d.code": like},
			squirrel.ILike{"d.le_domain": like},
			squirrel.ILike{"d.username": like},
		})
	}

	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").
		From(domainsTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.conn.QueryRow(countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count domains: %w", err)
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	query, args, err := squirrel.
		Select(domainColumns).
		From(domainsTable).
		Where(where).
		OrderBy("d.name ASC").
		Offset(uint64((page - 1) * perPage)).
		Limit(uint64(perPage)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	domains, err := r.collectDomains(rows)
	if err != nil {
		return nil, err
	}

	return &domain.DomainPage{
		Domains:    domains,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func (r *domainRepository) collectDomains(rows *sql.Rows) ([]*domain.Domain, error) {
	domains := make([]*domain.Domain, 0)

	for rows.Next() {
		d := &domain.Domain{}
		if err := rows.Scan(
			&d.ID,
			&d.Code,
			&d.Name,
			&d.APIURL,
			&d.Username,
			&d.UserToken,
			&d.LEDomain,
			&d.Phase,
			&d.Enabled,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating domain rows: %w", err)
	}

	return domains, nil
}

func (r *domainRepository) Create(d *domain.Domain) (*domain.Domain, error) {
	query, args, err := squirrel.StatementBuilder.
		Insert("domains").
		Columns("code", "name", "api_url", "username", "usertoken", "le_domain", "phase", "enabled").
		Values(d.Code, d.Name, d.APIURL, d.Username, d.UserToken, d.LEDomain, d.Phase, d.Enabled).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	if err := r.conn.QueryRow(query, args...).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return d, nil
}

// Update persists the mutable fields of a domain. The code column is
// deliberately left out: it is frozen after creation.
func (r *domainRepository) Update(d *domain.Domain) error {
	query, args, err := squirrel.
		Update("domains").
		Set("name", d.Name).
		Set("api_url", d.APIURL).
		Set("username", d.Username).
		Set("usertoken", d.UserToken).
		Set("le_domain", d.LEDomain).
		Set("phase", d.Phase).
		Set("enabled", d.Enabled).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": d.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete removes a domain. Campaigns and stats cascade at the schema level.
func (r *domainRepository) Delete(id int) (bool, error) {
	query, args, err := squirrel.
		Delete("domains").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to execute query: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Upsert inserts or refreshes a domain keyed by its code. Used to seed the
// configured domains at startup.
func (r *domainRepository) Upsert(d *domain.Domain) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("domains").
		Columns("code", "name", "api_url", "username", "usertoken", "le_domain", "phase", "enabled").
		Values(d.Code, d.Name, d.APIURL, d.Username, d.UserToken, d.LEDomain, d.Phase, d.Enabled).
		Suffix(`
			ON CONFLICT (code) DO UPDATE SET
				name = EXCLUDED.name,
				api_url = EXCLUDED.api_url,
				username = EXCLUDED.username,
				usertoken = EXCLUDED.usertoken,
				le_domain = EXCLUDED.le_domain,
				phase = EXCLUDED.phase,
				enabled = EXCLUDED.enabled,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
