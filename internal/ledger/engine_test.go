package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-ledger/internal/ledger"
	"ticket-ledger/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// baseTicket is 10,000 at 12% for 12 months starting 2026-01-01.
func baseTicket(capPct string, reds ...model.Redemption) model.TicketParams {
	return model.TicketParams{
		Name:              "base",
		Currency:          "PEN",
		Principal:         dec("10000"),
		AnnualRate:        dec("12"),
		StartDate:         date(2026, time.January, 1),
		TermMonths:        12,
		CapitalizationPct: dec(capPct),
		Redemptions:       reds,
	}
}

// netInterest mirrors the engine's actual/360 formula with 5% withholding.
func netInterest(balance, rate decimal.Decimal, days int) decimal.Decimal {
	gross := balance.Mul(rate).Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(36000))
	return gross.Sub(gross.Mul(dec("0.05")))
}

func kinds(events []ledger.Event) []model.EventKind {
	out := make([]model.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func countKind(events []ledger.Event, k model.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// bimestral cut days for 2026-01-01 .. 2027-01-01
var cycleDays = []int{59, 61, 61, 62, 61, 61}

func TestGenerate_ScenarioA_FullPayout(t *testing.T) {
	res := ledger.New().Generate(baseTicket("0"))

	require.Len(t, res.Events, 14)
	assert.Equal(t, model.EventOrigination, res.Events[0].Kind)
	assert.True(t, res.Events[0].Balance.Equal(dec("10000")))
	assert.True(t, res.Events[0].Amount.Equal(dec("10000")))

	assert.Equal(t, 6, countKind(res.Events, model.EventInterestAccrual))
	assert.Equal(t, 6, countKind(res.Events, model.EventPayout))
	assert.Equal(t, 0, countKind(res.Events, model.EventCapitalization))

	cuts := []time.Time{
		date(2026, time.March, 1), date(2026, time.May, 1), date(2026, time.July, 1),
		date(2026, time.September, 1), date(2026, time.November, 1), date(2027, time.January, 1),
	}
	for i, days := range cycleDays {
		accrual := res.Events[1+2*i]
		payout := res.Events[2+2*i]
		want := netInterest(dec("10000"), dec("12"), days)

		assert.Equal(t, model.EventInterestAccrual, accrual.Kind)
		assert.Equal(t, cuts[i], accrual.Date)
		assert.True(t, accrual.Amount.Equal(want), "period %d: want %s got %s", i, want, accrual.Amount)
		assert.True(t, accrual.Balance.Equal(dec("10000")))

		assert.Equal(t, model.EventPayout, payout.Kind)
		assert.True(t, payout.Amount.Equal(want.Neg()))
		assert.True(t, payout.Balance.Equal(dec("10000")))
	}

	last := res.Last()
	assert.Equal(t, model.EventCapitalReturn, last.Kind)
	assert.Equal(t, date(2027, time.January, 1), last.Date)
	assert.True(t, last.Amount.Equal(dec("-10000")))
	assert.True(t, last.Balance.IsZero())
	assert.True(t, res.FinalBalance.IsZero())

	// 10000 * 12% * 365/360 * 0.95
	assert.Equal(t, "1155.83", res.Summary.Paid.StringFixed(2))
	assert.Equal(t, 6, res.Summary.Periods)
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_ScenarioB_FullCapitalization(t *testing.T) {
	res := ledger.New().Generate(baseTicket("100"))

	assert.Equal(t, 0, countKind(res.Events, model.EventPayout))
	assert.Equal(t, 6, countKind(res.Events, model.EventCapitalization))

	balance := dec("10000")
	prev := balance
	for _, e := range res.Events {
		if e.Kind != model.EventCapitalization {
			continue
		}
		assert.True(t, e.Amount.IsPositive())
		assert.True(t, e.Balance.GreaterThan(prev), "balance must grow on every capitalization")
		prev = e.Balance
	}

	for _, days := range cycleDays {
		balance = balance.Add(netInterest(balance, dec("12"), days))
	}

	last := res.Last()
	assert.Equal(t, model.EventCapitalReturn, last.Kind)
	assert.True(t, last.Amount.Equal(dec("10000").Add(res.Summary.Capitalized).Neg()))
	assert.Equal(t, balance.Neg().StringFixed(2), last.Amount.StringFixed(2))
	assert.True(t, last.Amount.LessThan(dec("-11180")))
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_ScenarioC_PartialRedemption(t *testing.T) {
	red := model.Redemption{Month: 6, Amount: dec("5000"), PenaltyPct: dec("2")}
	res := ledger.New().Generate(baseTicket("0", red))

	require.Len(t, res.Events, 15)
	assert.Equal(t, []model.EventKind{
		model.EventOrigination,
		model.EventInterestAccrual, model.EventPayout,
		model.EventInterestAccrual, model.EventPayout,
		model.EventInterestAccrual, model.EventPayout, model.EventRedemptionPartial,
		model.EventInterestAccrual, model.EventPayout,
		model.EventInterestAccrual, model.EventPayout,
		model.EventInterestAccrual, model.EventPayout,
		model.EventCapitalReturn,
	}, kinds(res.Events))

	r := res.Events[7]
	assert.Equal(t, date(2026, time.July, 1), r.Date)
	assert.True(t, r.Amount.Equal(dec("-4900")), "got %s", r.Amount)
	assert.True(t, r.Balance.Equal(dec("5000")))
	assert.Contains(t, r.Description, "5,000.00")
	assert.Contains(t, res.Events[5].Description, "Accrual to redemption")

	// accrual continues on the reduced balance
	after := res.Events[8]
	assert.True(t, after.Amount.Equal(netInterest(dec("5000"), dec("12"), 62)))
	assert.True(t, after.Balance.Equal(dec("5000")))

	assert.True(t, res.Last().Amount.Equal(dec("-5000")))
	assert.Empty(t, res.Pending)
	assert.True(t, res.Summary.Penalties.Equal(dec("100")))
	assert.True(t, res.Summary.RedemptionCash.Equal(dec("4900")))
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_ScenarioD_TotalRedemption(t *testing.T) {
	red := model.Redemption{Month: 4, Amount: dec("25000"), PenaltyPct: dec("1")}
	res := ledger.New().Generate(baseTicket("0", red))

	require.Len(t, res.Events, 7)
	total := res.Events[5]
	assert.Equal(t, model.EventRedemptionTotal, total.Kind)
	assert.Equal(t, date(2026, time.May, 1), total.Date)
	assert.True(t, total.Amount.Equal(dec("-9900")))
	assert.True(t, total.Balance.IsZero())

	last := res.Last()
	assert.Equal(t, model.EventEarlyLiquidation, last.Kind)
	assert.True(t, last.Amount.IsZero())
	assert.True(t, last.Balance.IsZero())
	assert.Equal(t, 0, countKind(res.Events, model.EventCapitalReturn))
	assert.Equal(t, model.EventEarlyLiquidation, res.Summary.Terminal)
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_TotalRedemptionIncludesCapitalizedInterest(t *testing.T) {
	red := model.Redemption{Month: 4, Amount: dec("20000"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("100", red))

	total := res.Events[len(res.Events)-2]
	assert.Equal(t, model.EventRedemptionTotal, total.Kind)
	assert.True(t, total.Amount.Neg().GreaterThan(dec("10000")), "whole compounded balance is redeemed")
	assert.Equal(t, model.EventEarlyLiquidation, res.Last().Kind)
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_RedemptionRequestEqualToBalanceIsTotal(t *testing.T) {
	red := model.Redemption{Month: 2, Amount: dec("10000"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("0", red))

	assert.Equal(t, model.EventRedemptionTotal, res.Events[len(res.Events)-2].Kind)
	assert.Equal(t, model.EventEarlyLiquidation, res.Last().Kind)
}

func TestGenerate_DustBalanceAfterPartialRedemptionLiquidates(t *testing.T) {
	red := model.Redemption{Month: 2, Amount: dec("9999.995"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("0", red))

	partial := res.Events[len(res.Events)-2]
	assert.Equal(t, model.EventRedemptionPartial, partial.Kind)
	assert.True(t, partial.Balance.Equal(dec("0.005")))
	assert.Equal(t, model.EventEarlyLiquidation, res.Last().Kind)
	assert.True(t, res.FinalBalance.IsZero())
	assert.True(t, res.Summary.Forfeited.GreaterThanOrEqual(dec("0.005")))
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_OffCycleRedemptionTruncatesPeriod(t *testing.T) {
	red := model.Redemption{Month: 3, Amount: dec("1000"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("0", red))

	var dates []time.Time
	for _, e := range res.Events {
		if e.Kind == model.EventInterestAccrual {
			dates = append(dates, e.Date)
		}
	}
	// the cycle re-anchors on the redemption date
	assert.Equal(t, []time.Time{
		date(2026, time.March, 1),
		date(2026, time.April, 1),
		date(2026, time.June, 1),
		date(2026, time.August, 1),
		date(2026, time.October, 1),
		date(2026, time.December, 1),
		date(2027, time.January, 1),
	}, dates)
	assert.True(t, res.Events[3].Amount.Equal(netInterest(dec("10000"), dec("12"), 31)))
}

func TestGenerate_OneRedemptionPerPeriod(t *testing.T) {
	first := model.Redemption{Month: 3, Amount: dec("1000"), PenaltyPct: dec("0")}
	second := model.Redemption{Month: 3, Amount: dec("2000"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("0", first, second))

	assert.Equal(t, 1, countKind(res.Events, model.EventRedemptionPartial))
	require.Len(t, res.Pending, 1)
	assert.True(t, res.Pending[0].Amount.Equal(dec("2000")))
	assert.Equal(t, 1, res.Summary.Redemptions)
	assert.True(t, res.Last().Amount.Equal(dec("-9000")))
}

func TestGenerate_RedemptionsInSuccessiveWindows(t *testing.T) {
	reds := []model.Redemption{
		{Month: 4, Amount: dec("2000"), PenaltyPct: dec("0")},
		{Month: 3, Amount: dec("1000"), PenaltyPct: dec("0")},
	}
	res := ledger.New().Generate(baseTicket("0", reds...))

	var executed []ledger.Event
	for _, e := range res.Events {
		if e.Kind.IsRedemption() {
			executed = append(executed, e)
		}
	}
	require.Len(t, executed, 2)
	assert.Equal(t, date(2026, time.April, 1), executed[0].Date)
	assert.Equal(t, date(2026, time.May, 1), executed[1].Date)
	assert.True(t, executed[1].Balance.Equal(dec("7000")))
	assert.Equal(t, 4, reds[0].Month, "caller slice is not reordered")
}

func TestGenerate_RedemptionOutsideTermStaysPending(t *testing.T) {
	red := model.Redemption{Month: 18, Amount: dec("1000"), PenaltyPct: dec("0")}
	res := ledger.New().Generate(baseTicket("0", red))

	assert.Equal(t, 0, countKind(res.Events, model.EventRedemptionPartial))
	require.Len(t, res.Pending, 1)
	assert.Equal(t, model.EventCapitalReturn, res.Last().Kind)
}

func TestGenerate_DegenerateTerm(t *testing.T) {
	for _, term := range []int{0, -3} {
		p := baseTicket("0")
		p.TermMonths = term
		res := ledger.New().Generate(p)

		require.Len(t, res.Events, 2)
		assert.Equal(t, model.EventOrigination, res.Events[0].Kind)
		assert.Equal(t, model.EventCapitalReturn, res.Events[1].Kind)
		assert.Equal(t, date(2026, time.January, 1), res.Events[0].Date)
		assert.Equal(t, res.Events[0].Date, res.Events[1].Date, "term %d", term)
		assert.True(t, res.Events[1].Amount.Equal(dec("-10000")))
		require.NoError(t, res.Summary.Reconcile())
	}
}

func TestGenerate_DustPrincipalStillMatures(t *testing.T) {
	p := baseTicket("0")
	p.Principal = dec("0.01")
	res := ledger.New().Generate(p)

	last := res.Last()
	assert.Equal(t, model.EventCapitalReturn, last.Kind)
	assert.Equal(t, date(2027, time.January, 1), last.Date)
	assert.True(t, last.Amount.IsZero())
	assert.Zero(t, countKind(res.Events, model.EventPayout))
	assert.True(t, res.Summary.Forfeited.GreaterThanOrEqual(dec("0.01")))
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_ShortLastPeriod(t *testing.T) {
	p := baseTicket("0")
	p.TermMonths = 3
	res := ledger.New().Generate(p)

	// Mar 1 cut, then a one-month stub to Apr 1
	assert.Equal(t, 2, countKind(res.Events, model.EventInterestAccrual))
	assert.Equal(t, date(2026, time.April, 1), res.Last().Date)
	assert.True(t, res.Events[3].Amount.Equal(netInterest(dec("10000"), dec("12"), 31)))
}

func TestGenerate_SplitCapitalization(t *testing.T) {
	res := ledger.New().Generate(baseTicket("25"))

	first := netInterest(dec("10000"), dec("12"), 59)
	require.Equal(t, model.EventPayout, res.Events[2].Kind)
	require.Equal(t, model.EventCapitalization, res.Events[3].Kind)
	assert.Equal(t, first.Mul(dec("0.75")).StringFixed(8), res.Events[2].Amount.Neg().StringFixed(8))
	assert.Equal(t, first.Mul(dec("0.25")).StringFixed(8), res.Events[3].Amount.StringFixed(8))
	assert.True(t, res.Events[3].Balance.Equal(dec("10000").Add(res.Events[3].Amount)))
	require.NoError(t, res.Summary.Reconcile())
}

func TestGenerate_ZeroRateAccruesNothing(t *testing.T) {
	p := baseTicket("50")
	p.AnnualRate = decimal.Zero
	res := ledger.New().Generate(p)

	assert.Equal(t, 0, countKind(res.Events, model.EventPayout))
	assert.Equal(t, 0, countKind(res.Events, model.EventCapitalization))
	assert.Equal(t, 6, countKind(res.Events, model.EventInterestAccrual))
	assert.True(t, res.Last().Amount.Equal(dec("-10000")))
}

func TestGenerate_MonthEndStart(t *testing.T) {
	p := baseTicket("0")
	p.StartDate = date(2026, time.January, 31)
	p.TermMonths = 2
	res := ledger.New().Generate(p)

	assert.Equal(t, date(2026, time.March, 31), res.Last().Date)
	assert.True(t, res.Events[1].Amount.Equal(netInterest(dec("10000"), dec("12"), 59)))
}

func TestGenerate_Idempotent(t *testing.T) {
	params := baseTicket("40",
		model.Redemption{Month: 9, Amount: dec("3000"), PenaltyPct: dec("1.5")},
		model.Redemption{Month: 5, Amount: dec("1000"), PenaltyPct: dec("0")},
	)
	engine := ledger.New()

	first := engine.Generate(params)
	second := engine.Generate(params)
	assert.Equal(t, first, second)
	assert.Equal(t, 9, params.Redemptions[0].Month)
}

func TestGenerate_Properties(t *testing.T) {
	cases := map[string]model.TicketParams{
		"payout":         baseTicket("0"),
		"compound":       baseTicket("100"),
		"split":          baseTicket("33.3"),
		"partial":        baseTicket("60", model.Redemption{Month: 5, Amount: dec("4000"), PenaltyPct: dec("3")}),
		"total":          baseTicket("60", model.Redemption{Month: 7, Amount: dec("99999"), PenaltyPct: dec("5")}),
		"many":           baseTicket("10", model.Redemption{Month: 1, Amount: dec("100")}, model.Redemption{Month: 2, Amount: dec("100")}, model.Redemption{Month: 11, Amount: dec("100")}),
		"long odd":       {Currency: "USD", Principal: dec("2500.55"), AnnualRate: dec("7.25"), StartDate: date(2027, time.August, 31), TermMonths: 37, CapitalizationPct: dec("80")},
		"single month":   {Currency: "USD", Principal: dec("1"), AnnualRate: dec("1"), StartDate: date(2026, time.February, 15), TermMonths: 1},
		"dust principal": {Currency: "PEN", Principal: dec("0.01"), AnnualRate: dec("12"), StartDate: date(2026, time.January, 1), TermMonths: 12},
		"negative term":  {Currency: "PEN", Principal: dec("500"), AnnualRate: dec("12"), StartDate: date(2026, time.January, 1), TermMonths: -3},
	}

	for name, params := range cases {
		t.Run(name, func(t *testing.T) {
			res := ledger.New().Generate(params)
			require.NotEmpty(t, res.Events)

			assert.Equal(t, model.EventOrigination, res.Events[0].Kind)
			assert.True(t, res.Events[0].Balance.Equal(params.Principal))

			terminals := 0
			for i, e := range res.Events {
				assert.Equal(t, i, e.Index)
				assert.False(t, e.Balance.IsNegative(), "event %d balance %s", i, e.Balance)
				if i > 0 {
					assert.False(t, e.Date.Before(res.Events[i-1].Date), "events are chronological")
				}
				if e.Kind.IsTerminal() {
					terminals++
					assert.Equal(t, len(res.Events)-1, i, "no event after termination")
				}
			}
			assert.Equal(t, 1, terminals)
			assert.True(t, res.Last().Balance.IsZero())
			assert.True(t, res.FinalBalance.IsZero())
			assert.Equal(t, res.Last().Kind, res.Summary.Terminal)
			require.NoError(t, res.Summary.Reconcile())
		})
	}
}
