package aggregation

import (
	"sort"
	"strings"

	"github.com/SscSPs/pocket_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SettleBalances computes each member's net position across shared expenses.
//
// Each expense is split equally between the spender and everyone in SplitWith
// (duplicates counted once). Shares are rounded half away from zero to cents
// and the spender absorbs the remainder, so the balances always sum to zero.
func SettleBalances(expenses []domain.SharedExpense) []domain.MemberBalance {
	balances := make(map[string]decimal.Decimal)

	for _, e := range expenses {
		participants := participantsOf(e)
		for _, p := range participants {
			if _, ok := balances[p]; !ok {
				balances[p] = decimal.Zero
			}
		}
		if len(participants) < 2 {
			continue
		}

		share := e.Amount.Div(decimal.NewFromInt(int64(len(participants)))).Round(2)
		for _, p := range participants {
			if p == e.Spender {
				continue
			}
			balances[p] = balances[p].Sub(share)
			balances[e.Spender] = balances[e.Spender].Add(share)
		}
	}

	out := make([]domain.MemberBalance, 0, len(balances))
	for member, bal := range balances {
		out = append(out, domain.MemberBalance{Member: member, Balance: bal})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Member < out[j].Member })
	return out
}

func participantsOf(e domain.SharedExpense) []string {
	seen := map[string]bool{e.Spender: true}
	out := []string{e.Spender}
	for _, m := range e.SplitWith {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
