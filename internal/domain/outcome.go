package domain

import (
	"fmt"
	"math"
)

// QuotaUnitsPerDollar is the number of service base units in one display unit.
const QuotaUnitsPerDollar = 500_000

type LoginOutcome struct {
	Success bool
	// SessionUserID is the opaque user id read from the page after login. It can
	// be empty even when Success is true.
	SessionUserID string
}

type CheckinOutcome struct {
	Success bool
	Message string
	// AlreadyDone is set when the service answered that today's check-in was
	// already completed. Success is true in that case.
	AlreadyDone bool
}

type Quota int64

// Display converts base units to the display amount rounded to 2 decimals.
func (q Quota) Display() float64 {
	return math.Round(float64(q)/QuotaUnitsPerDollar*100) / 100
}

func (q Quota) String() string {
	return fmt.Sprintf("$%.2f", q.Display())
}

type AccountStatus struct {
	Quota      Quota
	UsedQuota  Quota
	BonusQuota Quota
}

func (s AccountStatus) Summary() string {
	return fmt.Sprintf("balance %s, used %s, bonus %s", s.Quota, s.UsedQuota, s.BonusQuota)
}
