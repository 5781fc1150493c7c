package service

import (
	"context"
	"sync"
	"time"

	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/chain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/domain"
	"github.com/chinkauchenna2021/sol-airdrop-sub001/internal/repository"
)

// In-memory doubles that mirror the repository semantics, including the
// sentinel errors and the atomicity of the guarded writes.

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[uint]domain.User
	errOn map[uint]error
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: make(map[uint]domain.User), errOn: make(map[uint]error)}
	for _, u := range users {
		r.byID[u.ID] = u
	}

	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.errOn[id]; err != nil {
		return domain.User{}, err
	}
	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByWallet(_ context.Context, wallet string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.WalletAddress == wallet {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindOrCreateByWallet(ctx context.Context, wallet string) (domain.User, error) {
	if user, err := r.FindByWallet(ctx, wallet); err == nil {
		return user, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := domain.User{ID: uint(len(r.byID) + 1), WalletAddress: wallet, ActivityTier: domain.TierLow}
	r.byID[user.ID] = user

	return user, nil
}

type fakeApprovalRepo struct {
	mu      sync.Mutex
	records map[uint]domain.ApprovalRecord
}

func newFakeApprovalRepo(records ...domain.ApprovalRecord) *fakeApprovalRepo {
	r := &fakeApprovalRepo{records: make(map[uint]domain.ApprovalRecord)}
	for _, rec := range records {
		r.records[rec.UserID] = rec
	}

	return r
}

func (r *fakeApprovalRepo) FindByUserID(_ context.Context, userID uint) (domain.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[userID]
	if !ok {
		return domain.ApprovalRecord{}, repository.ErrApprovalNotFound
	}

	return record, nil
}

func (r *fakeApprovalRepo) Approve(_ context.Context, userID, approverID uint, now time.Time) (domain.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := r.records[userID]
	if record.Claimed {
		return domain.ApprovalRecord{}, repository.ErrInvalidTransition
	}
	record.UserID = userID
	record.Approved = true
	record.ApprovedAt = &now
	record.ApprovedBy = &approverID
	r.records[userID] = record

	return record, nil
}

func (r *fakeApprovalRepo) Revoke(_ context.Context, userID, _ uint) (domain.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[userID]
	if !ok {
		return domain.ApprovalRecord{}, repository.ErrApprovalNotFound
	}
	if record.Claimed {
		return domain.ApprovalRecord{}, repository.ErrInvalidTransition
	}
	record.Approved = false
	record.ApprovedAt = nil
	record.ApprovedBy = nil
	r.records[userID] = record

	return record, nil
}

func (r *fakeApprovalRepo) get(userID uint) domain.ApprovalRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.records[userID]
}

func (r *fakeApprovalRepo) markClaimed(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := r.records[userID]
	record.Claimed = true
	r.records[userID] = record
}

type fakeIntentRepo struct {
	mu      sync.Mutex
	intents map[string]domain.PaymentIntent
}

func newFakeIntentRepo() *fakeIntentRepo {
	return &fakeIntentRepo{intents: make(map[string]domain.PaymentIntent)}
}

func (r *fakeIntentRepo) Create(_ context.Context, intent domain.PaymentIntent) (domain.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.intents[intent.ID] = intent

	return intent, nil
}

func (r *fakeIntentRepo) FindActiveByWallet(_ context.Context, wallet string, now time.Time) (domain.PaymentIntent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, intent := range r.intents {
		if intent.WalletAddress == wallet && !intent.Consumed() && !intent.Expired(now) {
			return intent, nil
		}
	}

	return domain.PaymentIntent{}, repository.ErrIntentNotFound
}

func (r *fakeIntentRepo) Consume(_ context.Context, id string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	intent, ok := r.intents[id]
	if !ok || intent.Consumed() || intent.Expired(now) {
		return false, nil
	}
	intent.ConsumedAt = &now
	r.intents[id] = intent

	return true, nil
}

type fakeMintRepo struct {
	mu          sync.Mutex
	byWallet    map[string]domain.MintRecord
	signatures  map[string]bool
	nextNumber  int64
	claimedHook func(userID uint)
}

func newFakeMintRepo() *fakeMintRepo {
	return &fakeMintRepo{
		byWallet:   make(map[string]domain.MintRecord),
		signatures: make(map[string]bool),
	}
}

func (r *fakeMintRepo) FindByWallet(_ context.Context, wallet string) (domain.MintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byWallet[wallet]
	if !ok {
		return domain.MintRecord{}, repository.ErrMintNotFound
	}

	return record, nil
}

func (r *fakeMintRepo) CreateMintAndClaim(_ context.Context, record domain.MintRecord, userID uint, now time.Time) (domain.MintRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byWallet[record.WalletAddress]; ok {
		return domain.MintRecord{}, repository.ErrMintExists
	}
	if r.signatures[record.PaymentSignature] {
		return domain.MintRecord{}, repository.ErrPaymentSignatureUsed
	}
	r.nextNumber++
	record.NFTNumber = r.nextNumber
	record.CreatedAt = now
	r.byWallet[record.WalletAddress] = record
	r.signatures[record.PaymentSignature] = true
	if r.claimedHook != nil {
		r.claimedHook(userID)
	}

	return record, nil
}

type fakeVerifier struct {
	transfer chain.Transfer
	err      error
}

func (v *fakeVerifier) GetTransfer(context.Context, string) (chain.Transfer, error) {
	return v.transfer, v.err
}

type fakeSubmitter struct {
	mu     sync.Mutex
	result chain.MintResult
	err    error
	calls  int
}

func (s *fakeSubmitter) MintAndTransfer(context.Context, string) (chain.MintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	return s.result, s.err
}

func (s *fakeSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings domain.ClaimSettings
	controls map[uint]domain.UserClaimControl
}

func newFakeSettingsRepo(settings domain.ClaimSettings) *fakeSettingsRepo {
	return &fakeSettingsRepo{
		settings: settings,
		controls: make(map[uint]domain.UserClaimControl),
	}
}

func (r *fakeSettingsRepo) Get(context.Context) (domain.ClaimSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.settings, nil
}

func (r *fakeSettingsRepo) FindControl(_ context.Context, userID uint) (domain.UserClaimControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	control, ok := r.controls[userID]
	if !ok {
		return domain.UserClaimControl{}, repository.ErrControlNotFound
	}

	return control, nil
}

func (r *fakeSettingsRepo) UpsertControl(_ context.Context, control domain.UserClaimControl) (domain.UserClaimControl, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.controls[control.UserID] = control

	return control, nil
}

type fakeClaimRepo struct {
	mu        sync.Mutex
	records   []domain.ClaimRecord
	credits   map[uint]int64
	lastClaim map[uint]time.Time
	dayCount  map[uint]int
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{
		credits:   make(map[uint]int64),
		lastClaim: make(map[uint]time.Time),
		dayCount:  make(map[uint]int),
	}
}

func (r *fakeClaimRepo) CreateAndCredit(_ context.Context, record domain.ClaimRecord, credit int64, guard domain.ClaimGuard) (domain.ClaimRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if guard.MaxDailyClaims > 0 && r.dayCount[record.UserID]+r.countLocked(record.UserID) >= guard.MaxDailyClaims {
		return domain.ClaimRecord{}, repository.ErrDailyLimitExceeded
	}
	if guard.CooldownCutoff != nil {
		if at, ok := r.lastClaim[record.UserID]; ok && !at.Before(*guard.CooldownCutoff) {
			return domain.ClaimRecord{}, repository.ErrCooldownViolated
		}
		for _, rec := range r.records {
			if rec.UserID == record.UserID &&
				(rec.Status == domain.ClaimAutoApproved || rec.Status == domain.ClaimCompleted) {
				return domain.ClaimRecord{}, repository.ErrCooldownViolated
			}
		}
	}

	record.ID = uint(len(r.records) + 1)
	r.records = append(r.records, record)
	r.credits[record.UserID] += credit

	return record, nil
}

func (r *fakeClaimRepo) countLocked(userID uint) int {
	count := 0
	for _, rec := range r.records {
		if rec.UserID == userID {
			count++
		}
	}

	return count
}

func (r *fakeClaimRepo) History(_ context.Context, userID uint, _ int) ([]domain.ClaimRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.ClaimRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}

	return out, nil
}

func (r *fakeClaimRepo) LastSuccessfulClaimAt(_ context.Context, userID uint) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	at, ok := r.lastClaim[userID]
	if !ok {
		return nil, nil
	}

	return &at, nil
}

func (r *fakeClaimRepo) CountSince(_ context.Context, userID uint, _ time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.dayCount[userID] + r.countLocked(userID), nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[uint]domain.Campaign
}

func newFakeCampaignRepo(campaigns ...domain.Campaign) *fakeCampaignRepo {
	r := &fakeCampaignRepo{campaigns: make(map[uint]domain.Campaign)}
	for _, c := range campaigns {
		r.campaigns[c.ID] = c
	}

	return r
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign.ID = uint(len(r.campaigns) + 1)
	r.campaigns[campaign.ID] = campaign

	return campaign, nil
}

func (r *fakeCampaignRepo) FindByID(_ context.Context, id uint) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, ok := r.campaigns[id]
	if !ok {
		return domain.Campaign{}, repository.ErrCampaignNotFound
	}

	return campaign, nil
}

func (r *fakeCampaignRepo) UpdateStatus(_ context.Context, id uint, status domain.CampaignStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, ok := r.campaigns[id]
	if !ok {
		return repository.ErrCampaignNotFound
	}
	campaign.Status = status
	r.campaigns[id] = campaign

	return nil
}

func (r *fakeCampaignRepo) IncrementDistributed(_ context.Context, id uint, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	campaign, ok := r.campaigns[id]
	if !ok {
		return repository.ErrCampaignNotFound
	}
	if campaign.Distributed+amount > campaign.TotalAllocation {
		return repository.ErrAllocationExceeded
	}
	campaign.Distributed += amount
	r.campaigns[id] = campaign

	return nil
}

func (r *fakeCampaignRepo) FindActivePassCampaign(context.Context) (domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.campaigns {
		if c.Status == domain.CampaignActive && c.MultiplierBonus > 0 {
			return c, nil
		}
	}

	return domain.Campaign{}, repository.ErrCampaignNotFound
}
