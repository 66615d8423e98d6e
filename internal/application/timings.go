package application

import "time"

// Timings holds every fixed wait of the login and batch flows.
type Timings struct {
	NavigationTimeout time.Duration
	PageSettle        time.Duration
	PopupDismissals   int
	PopupSpacing      time.Duration
	ModeSwitchSettle  time.Duration
	FocusPause        time.Duration
	PreSubmitPause    time.Duration
	SubmitWait        time.Duration
	RedirectRecovery  time.Duration
	RetryDelay        time.Duration
	AccountPacing     time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		NavigationTimeout: 60 * time.Second,
		PageSettle:        3 * time.Second,
		PopupDismissals:   3,
		PopupSpacing:      500 * time.Millisecond,
		ModeSwitchSettle:  2 * time.Second,
		FocusPause:        200 * time.Millisecond,
		PreSubmitPause:    500 * time.Millisecond,
		SubmitWait:        5 * time.Second,
		RedirectRecovery:  2 * time.Second,
		RetryDelay:        2 * time.Second,
		AccountPacing:     3 * time.Second,
	}
}

// WithDefaults fills zero fields from DefaultTimings.
func (t Timings) WithDefaults() Timings {
	d := DefaultTimings()
	fill := func(v *time.Duration, def time.Duration) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&t.NavigationTimeout, d.NavigationTimeout)
	fill(&t.PageSettle, d.PageSettle)
	fill(&t.PopupSpacing, d.PopupSpacing)
	fill(&t.ModeSwitchSettle, d.ModeSwitchSettle)
	fill(&t.FocusPause, d.FocusPause)
	fill(&t.PreSubmitPause, d.PreSubmitPause)
	fill(&t.SubmitWait, d.SubmitWait)
	fill(&t.RedirectRecovery, d.RedirectRecovery)
	fill(&t.RetryDelay, d.RetryDelay)
	fill(&t.AccountPacing, d.AccountPacing)
	if t.PopupDismissals <= 0 {
		t.PopupDismissals = d.PopupDismissals
	}

	return t
}
