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
	revenueSourcesTable = "revenue_sources rs"
)

type RevenueSourceRepository interface {
	UpsertSources(reportDate string, sources []*domain.RevenueSource) (int, error)
	ListByDate(reportDate string) ([]*domain.RevenueSource, error)
	LastSyncedAt(reportDate string) (*time.Time, error)
	DeleteOlderThan(cutoffDate string) (int64, error)
}

type revenueSourceRepository struct {
	conn *postgres.Connection
}

func NewRevenueSourceRepository(conn *postgres.Connection) RevenueSourceRepository {
	return &revenueSourceRepository{
		conn: conn,
	}
}

// UpsertSources stores a batch of Leadpier source records for one report
// date, keyed by (source_name, report_date). Sources without a name are
// skipped. Returns the number of rows written.
func (r *revenueSourceRepository) UpsertSources(reportDate string, sources []*domain.RevenueSource) (int, error) {
	count := 0
	now := time.Now().UTC()

	for _, src := range sources {
		if src.SourceName == "" {
			continue
		}

		query, args, err := squirrel.StatementBuilder.
			Insert("revenue_sources").
			Columns("source_name", "report_date", "visitors", "total_leads", "sold_leads",
				"total_revenue", "epl", "epv", "fetched_at").
			Values(src.SourceName, reportDate, src.Visitors, src.TotalLeads, src.SoldLeads,
				src.TotalRevenue, src.EPL, src.EPV, now).
			Suffix(`
				ON CONFLICT (source_name, report_date) DO UPDATE SET
					visitors = EXCLUDED.visitors,
					total_leads = EXCLUDED.total_leads,
					sold_leads = EXCLUDED.sold_leads,
					total_revenue = EXCLUDED.total_revenue,
					epl = EXCLUDED.epl,
					epv = EXCLUDED.epv,
					fetched_at = EXCLUDED.fetched_at
			`).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return count, fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := r.conn.Exec(query, args...); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return count, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
			}
			return count, fmt.Errorf("failed to execute query: %w", err)
		}

		count++
	}

	return count, nil
}

func (r *revenueSourceRepository) ListByDate(reportDate string) ([]*domain.RevenueSource, error) {
	query, args, err := squirrel.
		Select("rs.id, rs.source_name, rs.report_date, rs.visitors, rs.total_leads, rs.sold_leads, rs.total_revenue, rs.epl, rs.epv, rs.fetched_at").
		From(revenueSourcesTable).
		Where(squirrel.Eq{"rs.report_date": reportDate}).
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

	sources := make([]*domain.RevenueSource, 0)

	for rows.Next() {
		src := &domain.RevenueSource{}
		if err := rows.Scan(
			&src.ID,
			&src.SourceName,
			&src.ReportDate,
			&src.Visitors,
			&src.TotalLeads,
			&src.SoldLeads,
			&src.TotalRevenue,
			&src.EPL,
			&src.EPV,
			&src.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning revenue source: %w", err)
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revenue sources: %w", err)
	}

	return sources, nil
}

// LastSyncedAt returns the most recent fetched_at for the date, nil when
// the date has never been synced.
func (r *revenueSourceRepository) LastSyncedAt(reportDate string) (*time.Time, error) {
	query, args, err := squirrel.
		Select("rs.fetched_at").
		From(revenueSourcesTable).
		Where(squirrel.Eq{"rs.report_date": reportDate}).
		OrderBy("rs.fetched_at DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var fetchedAt time.Time
	if err := r.conn.QueryRow(query, args...).Scan(&fetchedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &fetchedAt, nil
}

func (r *revenueSourceRepository) DeleteOlderThan(cutoffDate string) (int64, error) {
	query, args, err := squirrel.
		Delete("revenue_sources").
		Where(squirrel.Lt{"report_date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error getting rows affected: %w", err)
	}

	return deleted, nil
}
