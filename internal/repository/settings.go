package repository

import (
	"context"
	"fmt"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository/dao"
)

var ErrControlNotFound = dao.ErrControlNotFound

type SettingsDAO interface {
	Get(ctx context.Context) (dao.ClaimSettings, error)
	Upsert(ctx context.Context, settings dao.ClaimSettings) (dao.ClaimSettings, error)
	FindControl(ctx context.Context, userID uint) (dao.UserClaimControl, error)
	UpsertControl(ctx context.Context, control dao.UserClaimControl) (dao.UserClaimControl, error)
}

type SettingsRepository struct {
	dao SettingsDAO
}

func NewSettingsRepository(dao SettingsDAO) *SettingsRepository {
	return &SettingsRepository{
		dao: dao,
	}
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.ClaimSettings, error) {
	found, err := r.dao.Get(ctx)
	if err != nil {
		return domain.ClaimSettings{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SettingsRepository) Update(ctx context.Context, settings domain.ClaimSettings) (domain.ClaimSettings, error) {
	updated, err := r.dao.Upsert(ctx, r.domainToDao(settings))
	if err != nil {
		return domain.ClaimSettings{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *SettingsRepository) FindControl(ctx context.Context, userID uint) (domain.UserClaimControl, error) {
	found, err := r.dao.FindControl(ctx, userID)
	if err != nil {
		return domain.UserClaimControl{}, fmt.Errorf("r.dao.FindControl -> %w", err)
	}

	return r.controlDaoToDomain(found), nil
}

func (r *SettingsRepository) UpsertControl(ctx context.Context, control domain.UserClaimControl) (domain.UserClaimControl, error) {
	updated, err := r.dao.UpsertControl(ctx, dao.UserClaimControl{
		UserID:        control.UserID,
		ClaimsEnabled: control.ClaimsEnabled,
		Reason:        control.Reason,
		UpdatedBy:     control.UpdatedBy,
	})
	if err != nil {
		return domain.UserClaimControl{}, fmt.Errorf("r.dao.UpsertControl -> %w", err)
	}

	return r.controlDaoToDomain(updated), nil
}

func (r *SettingsRepository) daoToDomain(s dao.ClaimSettings) domain.ClaimSettings {
	settings := domain.ClaimSettings{
		ClaimsEnabled:         s.ClaimsEnabled,
		MinClaimAmount:        s.MinClaimAmount,
		MaxClaimAmount:        s.MaxClaimAmount,
		FeePercentage:         s.FeePercentage,
		CooldownHours:         s.CooldownHours,
		MaxDailyClaimsPerUser: s.MaxDailyClaimsPerUser,
		Schedule: domain.ClaimSchedule{
			Enabled:  s.ScheduleEnabled,
			Timezone: s.ScheduleTimezone,
		},
		AutoApproval: domain.AutoApproval{
			Enabled:      s.AutoApprovalEnabled,
			MaxAmount:    s.AutoApprovalMaxAmount,
			MinUserLevel: s.AutoApprovalMinUserLevel,
		},
		UpdatedBy: s.UpdatedBy,
		UpdatedAt: s.UpdatedAt,
	}

	if s.ScheduleStartTime != nil {
		settings.Schedule.StartTime = *s.ScheduleStartTime
	}
	if s.ScheduleEndTime != nil {
		settings.Schedule.EndTime = *s.ScheduleEndTime
	}

	return settings
}

func (r *SettingsRepository) domainToDao(s domain.ClaimSettings) dao.ClaimSettings {
	record := dao.ClaimSettings{
		ClaimsEnabled:         s.ClaimsEnabled,
		MinClaimAmount:        s.MinClaimAmount,
		MaxClaimAmount:        s.MaxClaimAmount,
		FeePercentage:         s.FeePercentage,
		CooldownHours:         s.CooldownHours,
		MaxDailyClaimsPerUser: s.MaxDailyClaimsPerUser,
		ScheduleEnabled:       s.Schedule.Enabled,
		ScheduleTimezone:      s.Schedule.Timezone,

		AutoApprovalEnabled:      s.AutoApproval.Enabled,
		AutoApprovalMaxAmount:    s.AutoApproval.MaxAmount,
		AutoApprovalMinUserLevel: s.AutoApproval.MinUserLevel,

		UpdatedBy: s.UpdatedBy,
	}

	if !s.Schedule.StartTime.IsZero() {
		start := s.Schedule.StartTime
		record.ScheduleStartTime = &start
	}
	if !s.Schedule.EndTime.IsZero() {
		end := s.Schedule.EndTime
		record.ScheduleEndTime = &end
	}

	return record
}

func (r *SettingsRepository) controlDaoToDomain(c dao.UserClaimControl) domain.UserClaimControl {
	return domain.UserClaimControl{
		UserID:        c.UserID,
		ClaimsEnabled: c.ClaimsEnabled,
		Reason:        c.Reason,
		UpdatedBy:     c.UpdatedBy,
		UpdatedAt:     c.UpdatedAt,
	}
}
