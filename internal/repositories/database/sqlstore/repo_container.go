package sqlstore

import (
	portsrepo "github.com/SscSPs/pocket_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/pocket_ledger_app/internal/platform/database"
)

// NewRepositoryProvider wires every repository onto one shared pool.
func NewRepositoryProvider(db *database.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    NewTxManager(db),
		IdentityRepo: newIdentityRepository(db),
		SessionRepo:  newSessionRepository(db),
		LedgerRepo:   newLedgerRepository(db),
		GroupRepo:    newGroupRepository(db),
		RewardRepo:   newRewardRepository(db),
	}
}
