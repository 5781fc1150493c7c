package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var (
	ErrCampaignNotFound   = dao.ErrCampaignNotFound
	ErrAllocationExceeded = dao.ErrAllocationExceeded
)

type CampaignDAO interface {
	Insert(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	FindByID(ctx context.Context, id uint) (dao.Campaign, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	IncrementDistributed(ctx context.Context, id uint, amount int64) error
	FindActivePassCampaign(ctx context.Context) (dao.Campaign, error)
	FindDueForTransition(ctx context.Context, now time.Time) ([]dao.Campaign, error)
}

type CampaignRepository struct {
	dao CampaignDAO
}

func NewCampaignRepository(dao CampaignDAO) *CampaignRepository {
	return &CampaignRepository{
		dao: dao,
	}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(campaign))
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id uint) (domain.Campaign, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id uint, status domain.CampaignStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *CampaignRepository) IncrementDistributed(ctx context.Context, id uint, amount int64) error {
	if err := r.dao.IncrementDistributed(ctx, id, amount); err != nil {
		return fmt.Errorf("r.dao.IncrementDistributed -> %w", err)
	}

	return nil
}

func (r *CampaignRepository) FindActivePassCampaign(ctx context.Context) (domain.Campaign, error) {
	found, err := r.dao.FindActivePassCampaign(ctx)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.FindActivePassCampaign -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CampaignRepository) FindDueForTransition(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	found, err := r.dao.FindDueForTransition(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindDueForTransition -> %w", err)
	}

	campaigns := make([]domain.Campaign, 0, len(found))
	for _, c := range found {
		campaigns = append(campaigns, r.daoToDomain(c))
	}

	return campaigns, nil
}

func (r *CampaignRepository) daoToDomain(c dao.Campaign) domain.Campaign {
	return domain.Campaign{
		ID:               c.ID,
		Name:             c.Name,
		TotalAllocation:  c.TotalAllocation,
		Distributed:      c.Distributed,
		DistributionType: domain.DistributionType(c.DistributionType),
		Status:           domain.CampaignStatus(c.Status),
		MultiplierBonus:  c.MultiplierBonus,
		Eligibility:      c.Eligibility,
		TierAllocs:       c.TierAllocs,
		LotterySeed:      c.LotterySeed,
		LotteryPrizes:    c.LotteryPrizes,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *CampaignRepository) domainToDao(c domain.Campaign) dao.Campaign {
	return dao.Campaign{
		ID:               c.ID,
		Name:             c.Name,
		TotalAllocation:  c.TotalAllocation,
		Distributed:      c.Distributed,
		DistributionType: string(c.DistributionType),
		Status:           string(c.Status),
		MultiplierBonus:  c.MultiplierBonus,
		Eligibility:      c.Eligibility,
		TierAllocs:       c.TierAllocs,
		LotterySeed:      c.LotterySeed,
		LotteryPrizes:    c.LotteryPrizes,
		StartTime:        c.StartTime,
		EndTime:          c.EndTime,
	}
}
