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
	campaignsTable     = "campaigns c"
	campaignStatsTable = "campaign_stats cs"
)

type CampaignRepository interface {
	Upsert(domainID int, c *domain.Campaign) (int, error)
	UpdateStats(campaignID int, stats *domain.CampaignStats) error
	GetByStatID(domainID int, statID string) (*domain.Campaign, error)
	CountByDateRange(start, end string) (int, error)
	ListByDateRange(start, end string, seedOnly *bool) ([]*domain.CampaignRow, error)
	DeleteOlderThan(cutoffDate string) (campaigns int64, stats int64, err error)
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

// Upsert inserts or refreshes a campaign keyed by (domain_id, statid) and
// returns its primary key.
func (r *campaignRepository) Upsert(domainID int, c *domain.Campaign) (int, error) {
	query, args, err := squirrel.StatementBuilder.
		Insert("campaigns").
		Columns("domain_id", "statid", "campaign_id", "campaign_name", "date", "time", "is_seed").
		Values(domainID, c.StatID, c.CampaignID, c.Name, c.Date, c.Time, c.IsSeed).
		Suffix(`
			ON CONFLICT (domain_id, statid) DO UPDATE SET
				campaign_id = EXCLUDED.campaign_id,
				campaign_name = EXCLUDED.campaign_name,
				date = EXCLUDED.date,
				time = EXCLUDED.time,
				is_seed = EXCLUDED.is_seed,
				updated_at = NOW()
			RETURNING id
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var id int
	if err := r.conn.QueryRow(query, args...).Scan(&id); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return id, nil
}

func (r *campaignRepository) UpdateStats(campaignID int, stats *domain.CampaignStats) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("campaign_stats").
		Columns("campaign_id", "sends", "opens", "open_percent", "clicks", "click_percent",
			"bounces", "bounce_percent", "unsubs", "last_fetched_at").
		Values(campaignID, stats.Sends, stats.Opens, stats.OpenPercent, stats.Clicks,
			stats.ClickPercent, stats.Bounces, stats.BouncePercent, stats.Unsubs, time.Now().UTC()).
		Suffix(`
			ON CONFLICT (campaign_id) DO UPDATE SET
				sends = EXCLUDED.sends,
				opens = EXCLUDED.opens,
				open_percent = EXCLUDED.open_percent,
				clicks = EXCLUDED.clicks,
				click_percent = EXCLUDED.click_percent,
				bounces = EXCLUDED.bounces,
				bounce_percent = EXCLUDED.bounce_percent,
				unsubs = EXCLUDED.unsubs,
				last_fetched_at = EXCLUDED.last_fetched_at
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

func (r *campaignRepository) GetByStatID(domainID int, statID string) (*domain.Campaign, error) {
	query, args, err := squirrel.
		Select("c.id, c.domain_id, c.statid, c.campaign_id, c.campaign_name, c.date, c.time, c.is_seed, c.created_at, c.updated_at").
		From(campaignsTable).
		Where(squirrel.Eq{"c.domain_id": domainID, "c.statid": statID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	c := &domain.Campaign{}
	err = r.conn.QueryRow(query, args...).Scan(
		&c.ID,
		&c.DomainID,
		&c.StatID,
		&c.CampaignID,
		&c.Name,
		&c.Date,
		&c.Time,
		&c.IsSeed,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return c, nil
}

func (r *campaignRepository) CountByDateRange(start, end string) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From(campaignsTable).
		Where(squirrel.GtOrEq{"c.date": start}).
		Where(squirrel.LtOrEq{"c.date": end}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	return count, nil
}

// ListByDateRange returns joined domain + campaign + stats rows for enabled
// domains, ordered by domain name and send time. A nil seedOnly returns
// both kinds, true only seeds, false only regular campaigns.
func (r *campaignRepository) ListByDateRange(start, end string, seedOnly *bool) ([]*domain.CampaignRow, error) {
	queryBuilder := squirrel.
		Select(`d.code, d.name, d.le_domain,
			c.statid, c.campaign_id, c.campaign_name, c.date, c.time, c.is_seed,
			COALESCE(cs.sends, 0), COALESCE(cs.opens, 0), COALESCE(cs.open_percent, 0),
			COALESCE(cs.clicks, 0), COALESCE(cs.click_percent, 0),
			COALESCE(cs.bounces, 0), COALESCE(cs.bounce_percent, 0),
			COALESCE(cs.unsubs, 0), cs.last_fetched_at`).
		From(campaignsTable).
		Join("domains d ON d.id = c.domain_id").
		LeftJoin("campaign_stats cs ON cs.campaign_id = c.id").
		Where(squirrel.Eq{"d.enabled": true}).
		Where(squirrel.GtOrEq{"c.date": start}).
		Where(squirrel.LtOrEq{"c.date": end}).
		OrderBy("d.name ASC", "c.date DESC", "c.time DESC").
		PlaceholderFormat(squirrel.Dollar)

	if seedOnly != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"c.is_seed": *seedOnly})
	}

	query, args, err := queryBuilder.ToSql()
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

	results := make([]*domain.CampaignRow, 0)

	for rows.Next() {
		row := &domain.CampaignRow{}
		var lastFetchedAt sql.NullTime

		if err := rows.Scan(
			&row.DomainCode,
			&row.DomainName,
			&row.LEDomain,
			&row.StatID,
			&row.CampaignID,
			&row.Name,
			&row.Date,
			&row.Time,
			&row.IsSeed,
			&row.Stats.Sends,
			&row.Stats.Opens,
			&row.Stats.OpenPercent,
			&row.Stats.Clicks,
			&row.Stats.ClickPercent,
			&row.Stats.Bounces,
			&row.Stats.BouncePercent,
			&row.Stats.Unsubs,
			&lastFetchedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning campaign row: %w", err)
		}

		if lastFetchedAt.Valid {
			row.Stats.LastFetchedAt = lastFetchedAt.Time
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating campaign rows: %w", err)
	}

	return results, nil
}

// DeleteOlderThan removes campaigns dated strictly before cutoffDate.
// Stats rows cascade; their count is reported separately for the cleanup
// summary.
func (r *campaignRepository) DeleteOlderThan(cutoffDate string) (int64, int64, error) {
	countSQL, countArgs, err := squirrel.
		Select("COUNT(*)").
		From(campaignStatsTable).
		Join("campaigns c ON c.id = cs.campaign_id").
		Where(squirrel.Lt{"c.date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var statsCount int64
	if err := r.conn.QueryRow(countSQL, countArgs...).Scan(&statsCount); err != nil {
		return 0, 0, fmt.Errorf("failed to count stats rows: %w", err)
	}

	query, args, err := squirrel.
		Delete("campaigns").
		Where(squirrel.Lt{"date": cutoffDate}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build query: %w", err)
	}

	result, err := r.conn.Exec(query, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to execute query: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("error getting rows affected: %w", err)
	}

	return deleted, statsCount, nil
}
