package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// cashTransactionID is the sentinel transaction id recorded for cash
// payments, which never touch a payment network.
const cashTransactionID = "CASH"

// cashMethod is the method every unrecognized input falls back to.
const cashMethod = "Cash"

// Payment is one append-only ledger entry. Cancelling the owning booking
// does not touch its payment record: the ledger is the audit trail.
type Payment struct {
	ID            int     `json:"id"`
	Method        string  `json:"method"`
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
	FeePercent    float64 `json:"feePercent"`
	TotalPaid     float64 `json:"totalPaid"`
	Status        string  `json:"status"`
}

// FeeQuote is the outcome of a fee computation. Fallback is set when the
// requested method was unrecognized and Cash pricing was applied instead;
// that is a recoverable signal, not an error.
type FeeQuote struct {
	Method     string  `json:"method"`
	FeePercent float64 `json:"feePercent"`
	Fee        float64 `json:"fee"`
	Total      float64 `json:"total"`
	Fallback   bool    `json:"fallback"`
}

// PaymentLedger owns the payment records. Append-only: there is no update or
// delete. Capacity is bounded by the booking slot table size.
type PaymentLedger struct {
	cfg      Config
	payments []Payment
	rng      *rand.Rand
}

func NewPaymentLedger(cfg Config) *PaymentLedger {
	return &PaymentLedger{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ComputeFee prices a base fare for the given method against the fee table.
// Unknown methods fall back to Cash pricing with Fallback set.
func (l *PaymentLedger) ComputeFee(method string, baseFare float64) FeeQuote {
	for _, entry := range l.cfg.FeeTable {
		if strings.EqualFold(entry.Method, method) {
			fee := baseFare * entry.FeePercent / 100.0
			return FeeQuote{
				Method:     entry.Method,
				FeePercent: entry.FeePercent,
				Fee:        fee,
				Total:      baseFare + fee,
			}
		}
	}
	return FeeQuote{
		Method:   cashMethod,
		Total:    baseFare,
		Fallback: true,
	}
}

// Record appends a completed payment for the given method and base fare and
// returns it. Non-cash payments get a synthesized transaction id; cash gets
// the CASH sentinel.
func (l *PaymentLedger) Record(method string, baseFare float64) (Payment, error) {
	if len(l.payments) >= l.cfg.MaxBookings() {
		return Payment{}, fmt.Errorf("record payment: %w", ErrCapacityExceeded)
	}

	quote := l.ComputeFee(method, baseFare)

	payment := Payment{
		ID:            len(l.payments),
		Method:        quote.Method,
		TransactionID: cashTransactionID,
		Amount:        baseFare,
		FeePercent:    quote.FeePercent,
		TotalPaid:     quote.Total,
		Status:        "Completed",
	}
	if quote.Method != cashMethod {
		payment.TransactionID = l.generateTransactionID()
	}

	l.payments = append(l.payments, payment)
	return payment, nil
}

// Get returns the payment with the given id.
func (l *PaymentLedger) Get(id int) (Payment, error) {
	if id < 0 || id >= len(l.payments) {
		return Payment{}, fmt.Errorf("payment %d: %w", id, ErrNotFound)
	}
	return l.payments[id], nil
}

// Count returns the number of recorded payments.
func (l *PaymentLedger) Count() int {
	return len(l.payments)
}

// generateTransactionID builds a best-effort unique local identifier from
// the current time plus a random component. It is a demo token, not a
// payment-network one.
func (l *PaymentLedger) generateTransactionID() string {
	return fmt.Sprintf("TXN%d%03d", time.Now().Unix(), l.rng.Intn(1000))
}
