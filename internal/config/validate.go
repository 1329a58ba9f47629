package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxPages      = 20
	MaxPeriodDays = 365
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a corrected copy of cfg. Out-of-range search
// settings are clamped rather than rejected; only settings the engine cannot
// run without become errors.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.API.BaseURL = strings.TrimRight(strings.TrimSpace(out.API.BaseURL), "/")
	if out.API.BaseURL == "" {
		res.addErr("api.base_url must be set")
	}
	if out.API.PerPage <= 0 {
		out.API.PerPage = Default().API.PerPage
	}
	if out.API.TimeoutSeconds <= 0 {
		out.API.TimeoutSeconds = Default().API.TimeoutSeconds
	}

	if out.API.ItemDelayMillis <= 0 {
		res.addErr("api.item_delay_ms must be > 0")
	} else if out.API.ItemDelayMillis < 100 {
		res.addWarn("api.item_delay_ms is very low (%d) and may trip upstream abuse protection.", out.API.ItemDelayMillis)
	}
	if out.API.PageDelaySeconds <= 0 {
		res.addErr("api.page_delay_seconds must be > 0")
	}

	if out.Search.Pages < 1 {
		res.addWarn("search.pages %d raised to 1", out.Search.Pages)
		out.Search.Pages = 1
	} else if out.Search.Pages > MaxPages {
		res.addWarn("search.pages %d lowered to %d", out.Search.Pages, MaxPages)
		out.Search.Pages = MaxPages
	}

	if out.Search.PeriodDays < 1 || out.Search.PeriodDays > MaxPeriodDays {
		res.addWarn("search.period_days %d reset to %d", out.Search.PeriodDays, MaxPeriodDays)
		out.Search.PeriodDays = MaxPeriodDays
	}

	if strings.TrimSpace(out.App.ReportsDir) == "" {
		out.App.ReportsDir = Default().App.ReportsDir
	}

	return out, res
}

// NormalizePeriod parses a freshness period typed by the user. Anything that
// is not an integer in [1, 365] comes back as 365.
func NormalizePeriod(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 || v > MaxPeriodDays {
		return MaxPeriodDays
	}
	return v
}

// ClampPages keeps a requested page count inside [1, MaxPages].
func ClampPages(pages int) int {
	if pages < 1 {
		return 1
	}
	if pages > MaxPages {
		return MaxPages
	}
	return pages
}

// ClampPeriod applies the NormalizePeriod rule to an already-parsed value.
func ClampPeriod(days int) int {
	if days < 1 || days > MaxPeriodDays {
		return MaxPeriodDays
	}
	return days
}
