package services

import (
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pocket_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/pocket_ledger_app/internal/events"
	"github.com/SscSPs/pocket_ledger_app/internal/llm"
	"github.com/SscSPs/pocket_ledger_app/internal/ocr"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/config"
)

// Collaborators are the outbound dependencies services talk to.
// Nil members fall back to "not configured" behaviour.
type Collaborators struct {
	Publisher        events.Publisher
	Completer        llm.Completer
	Extractor        ocr.Extractor
	IDTokenValidator IDTokenValidator
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators, opts ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Identity = NewIdentityService(repos.IdentityRepo, cfg.GoogleClientID, collab.IDTokenValidator, opts...)
	container.Session = NewSessionService(repos.SessionRepo, SessionConfig{
		Secret: cfg.JWTSecret,
		Expiry: cfg.JWTExpiryDuration,
		Issuer: cfg.JWTIssuer,
	}, opts...)
	container.GoogleOAuth = NewGoogleOAuthService(cfg, container.Identity, opts...)

	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.TxManager, collab.Publisher, opts...)
	container.Group = NewGroupService(repos.GroupRepo, opts...)
	container.Reward = NewRewardService(repos.RewardRepo, repos.LedgerRepo, repos.TxManager, collab.Publisher, RewardConfig{
		BudgetScope: cfg.RewardBudgetScope,
		AwardPolicy: cfg.RewardAwardPolicy,
	}, opts...)

	container.Analytics = NewAnalyticsService(repos.LedgerRepo, opts...)
	container.Advisor = NewAdvisorService(repos.LedgerRepo, collab.Completer, opts...)
	container.Receipt = NewReceiptService(collab.Extractor, container.Ledger, opts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.IdentitySvcFacade    = (*identityService)(nil)
	_ portssvc.SessionSvcFacade     = (*sessionService)(nil)
	_ portssvc.GoogleOAuthSvcFacade = (*googleOAuthService)(nil)
	_ portssvc.LedgerSvcFacade      = (*ledgerService)(nil)
	_ portssvc.GroupSvcFacade       = (*groupService)(nil)
	_ portssvc.RewardSvcFacade      = (*rewardService)(nil)
	_ portssvc.AnalyticsSvc         = (*analyticsService)(nil)
	_ portssvc.AdvisorSvc           = (*advisorService)(nil)
	_ portssvc.ReceiptSvc           = (*receiptService)(nil)
)
