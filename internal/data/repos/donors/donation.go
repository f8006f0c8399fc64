package donors

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/altruvue/fundraiser-backend/internal/domain"
	"github.com/altruvue/fundraiser-backend/internal/platform/dbctx"
	"github.com/altruvue/fundraiser-backend/internal/platform/logger"
)

// DonorWindowTotals is one donor's giving bucketed into the rolling annual
// windows the scoring engine consumes. Donors with no donations in the last
// 48 months still get a row when they have any donation at all; donors with
// no donations get no row and are scored from zeros.
type DonorWindowTotals struct {
	DonorID           uuid.UUID       `gorm:"column:donor_id"`
	CurrentYearTotal  decimal.Decimal `gorm:"column:current_year_total"`
	LastYearTotal     decimal.Decimal `gorm:"column:last_year_total"`
	TwoYearsAgoTotal  decimal.Decimal `gorm:"column:two_years_ago_total"`
	OlderYearTotal    decimal.Decimal `gorm:"column:older_year_total"`
	LifetimeTotal     decimal.Decimal `gorm:"column:lifetime_total"`
	LargestGiftAmount decimal.Decimal `gorm:"column:largest_gift_amount"`
	LastGiftDate      *time.Time      `gorm:"column:last_gift_date"`
}

type CampaignTotals struct {
	Raised     decimal.Decimal `gorm:"column:raised"`
	DonorCount int64           `gorm:"column:donor_count"`
}

type RetentionCounts struct {
	LastWindowDonors int64 `gorm:"column:last_window_donors"`
	RetainedDonors   int64 `gorm:"column:retained_donors"`
}

type DonationListFilter struct {
	DonorID    *uuid.UUID
	CampaignID *uuid.UUID
	Limit      int
	Offset     int
}

type DonationRepo interface {
	Create(dbc dbctx.Context, donations []*types.Donation) ([]*types.Donation, error)
	List(dbc dbctx.Context, orgID uuid.UUID, filter DonationListFilter) ([]*types.Donation, error)
	WindowTotals(dbc dbctx.Context, orgID uuid.UUID, runAt time.Time) ([]DonorWindowTotals, error)
	CampaignTotals(dbc dbctx.Context, orgID, campaignID uuid.UUID) (CampaignTotals, error)
	RetentionCounts(dbc dbctx.Context, orgID uuid.UUID, runAt time.Time) (RetentionCounts, error)
}

type donationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDonationRepo(db *gorm.DB, baseLog *logger.Logger) DonationRepo {
	return &donationRepo{db: db, log: baseLog.With("repo", "DonationRepo")}
}

func (r *donationRepo) Create(dbc dbctx.Context, donations []*types.Donation) ([]*types.Donation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(donations) == 0 {
		return []*types.Donation{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepo) List(dbc dbctx.Context, orgID uuid.UUID, filter DonationListFilter) ([]*types.Donation, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("organization_id = ?", orgID).
		Order("donation_date DESC")
	if filter.DonorID != nil {
		q = q.Where("donor_id = ?", *filter.DonorID)
	}
	if filter.CampaignID != nil {
		q = q.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var out []*types.Donation
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// WindowTotals buckets every donor's giving into rolling annual windows in a
// single grouped scan of the donation table. Window edges are half-open:
// (runAt-12mo, runAt] is "current", (runAt-24mo, runAt-12mo] is "last", and
// so on down to 48 months back. Largest gift and last gift date consider the
// donor's entire history.
func (r *donationRepo) WindowTotals(dbc dbctx.Context, orgID uuid.UUID, runAt time.Time) ([]DonorWindowTotals, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	m12 := runAt.AddDate(-1, 0, 0)
	m24 := runAt.AddDate(-2, 0, 0)
	m36 := runAt.AddDate(-3, 0, 0)
	m48 := runAt.AddDate(-4, 0, 0)

	var out []DonorWindowTotals
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT
			donor_id,
			COALESCE(SUM(CASE WHEN donation_date >  ? AND donation_date <= ? THEN amount ELSE 0 END), 0) AS current_year_total,
			COALESCE(SUM(CASE WHEN donation_date >  ? AND donation_date <= ? THEN amount ELSE 0 END), 0) AS last_year_total,
			COALESCE(SUM(CASE WHEN donation_date >  ? AND donation_date <= ? THEN amount ELSE 0 END), 0) AS two_years_ago_total,
			COALESCE(SUM(CASE WHEN donation_date >  ? AND donation_date <= ? THEN amount ELSE 0 END), 0) AS older_year_total,
			COALESCE(SUM(amount), 0) AS lifetime_total,
			COALESCE(MAX(amount), 0) AS largest_gift_amount,
			MAX(donation_date)       AS last_gift_date
		FROM donation
		WHERE organization_id = ?
		GROUP BY donor_id
	`,
		m12, runAt,
		m24, m12,
		m36, m24,
		m48, m36,
		orgID,
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *donationRepo) CampaignTotals(dbc dbctx.Context, orgID, campaignID uuid.UUID) (CampaignTotals, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out CampaignTotals
	err := transaction.WithContext(dbc.Ctx).Raw(`
		SELECT
			COALESCE(SUM(amount), 0)  AS raised,
			COUNT(DISTINCT donor_id)  AS donor_count
		FROM donation
		WHERE organization_id = ? AND campaign_id = ?
	`, orgID, campaignID).Scan(&out).Error
	return out, err
}

// RetentionCounts reports how many donors who gave in the last annual window
// also gave in the current one.
func (r *donationRepo) RetentionCounts(dbc dbctx.Context, orgID uuid.UUID, runAt time.Time) (RetentionCounts, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	m12 := runAt.AddDate(-1, 0, 0)
	m24 := runAt.AddDate(-2, 0, 0)

	var out RetentionCounts
	err := transaction.WithContext(dbc.Ctx).Raw(`
		WITH last_window AS (
			SELECT DISTINCT donor_id
			FROM donation
			WHERE organization_id = ? AND donation_date > ? AND donation_date <= ?
		), current_window AS (
			SELECT DISTINCT donor_id
			FROM donation
			WHERE organization_id = ? AND donation_date > ? AND donation_date <= ?
		)
		SELECT
			(SELECT COUNT(*) FROM last_window) AS last_window_donors,
			(SELECT COUNT(*)
			   FROM last_window lw
			   JOIN current_window cw ON cw.donor_id = lw.donor_id) AS retained_donors
	`,
		orgID, m24, m12,
		orgID, m12, runAt,
	).Scan(&out).Error
	return out, err
}
