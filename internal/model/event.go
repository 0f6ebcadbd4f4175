package model

// EventKind classifies a ledger line.
// Keep these values stable; they are intended for CSV and JSON output.
type EventKind string

const (
	EventOrigination       EventKind = "ORIGINATION"
	EventInterestAccrual   EventKind = "INTEREST_ACCRUAL"
	EventPayout            EventKind = "PAYOUT"
	EventCapitalization    EventKind = "CAPITALIZATION"
	EventRedemptionPartial EventKind = "REDEMPTION_PARTIAL"
	EventRedemptionTotal   EventKind = "REDEMPTION_TOTAL"
	EventEarlyLiquidation  EventKind = "EARLY_LIQUIDATION"
	EventCapitalReturn     EventKind = "CAPITAL_RETURN"
)

// IsTerminal reports whether no event may follow one of this kind.
func (k EventKind) IsTerminal() bool {
	return k == EventEarlyLiquidation || k == EventCapitalReturn
}

// IsRedemption reports whether the kind is a partial or total redemption.
func (k EventKind) IsRedemption() bool {
	return k == EventRedemptionPartial || k == EventRedemptionTotal
}
