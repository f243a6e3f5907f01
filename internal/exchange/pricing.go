package exchange

import (
	"currency-exchange-go/internal/models"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ExecutionRate derives the settlement rate from a mid rate and a fixed
// spread: buys pay mid*(1+spread), sells receive mid*(1-spread). The caller
// is responsible for rejecting a non-positive mid and an unknown trade type
// before pricing; an unknown type prices at zero.
func ExecutionRate(mid, spread decimal.Decimal, tradeType models.TransactionType) decimal.Decimal {
	switch tradeType {
	case models.TransactionBuy:
		return mid.Mul(one.Add(spread))
	case models.TransactionSell:
		return mid.Mul(one.Sub(spread))
	}
	return decimal.Zero
}

// ValueInPln values a balance for display: base balances at face amount,
// non-base at amount times the current mid rate. Never used for settlement.
func ValueInPln(balance models.WalletBalance, currentMid decimal.Decimal) decimal.Decimal {
	if balance.IsBase {
		return balance.Amount
	}
	return balance.Amount.Mul(currentMid)
}
