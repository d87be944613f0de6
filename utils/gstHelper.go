package utils

import "github.com/shopspring/decimal"

var decimalOneHundred = decimal.NewFromInt(100)

type GSTSplit struct {
	CGST decimal.Decimal
	SGST decimal.Decimal
	IGST decimal.Decimal
}

func (g GSTSplit) Total() decimal.Decimal {
	return g.CGST.Add(g.SGST).Add(g.IGST)
}

// CalculateGST applies rate% to taxable. Intra-state supply splits the tax
// evenly into CGST and SGST; inter-state supply is all IGST.
func CalculateGST(taxable decimal.Decimal, rate decimal.Decimal, interState bool) GSTSplit {
	if !rate.IsPositive() || taxable.IsZero() {
		return GSTSplit{}
	}
	tax := taxable.Mul(rate).DivRound(decimalOneHundred, 2)
	if interState {
		return GSTSplit{IGST: tax}
	}
	half := tax.DivRound(decimal.NewFromInt(2), 2)
	return GSTSplit{CGST: half, SGST: tax.Sub(half)}
}

// InclusiveTaxAmount extracts the tax portion from a tax-inclusive amount.
func InclusiveTaxAmount(amount decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Mul(rate).DivRound(rate.Add(decimalOneHundred), 2)
}
