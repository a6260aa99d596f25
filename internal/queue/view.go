package queue

import (
	"sort"
	"time"

	"github.com/gestorvip/fila/internal/models"
)

// Period is a relative creation-time window applied on the called tab.
type Period string

const (
	PeriodAll   Period = "all"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// Sort is the createdAt ordering of a derived view.
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// Filters narrow and order the records of one tab. Month and Year are
// calendar values (1-12, four-digit year); zero means no restriction.
// Period applies a relative window instead. Filters other than Sort only
// take effect on the called tab.
type Filters struct {
	Month  int
	Year   int
	Period Period
	Sort   Sort
}

// Select derives the displayed subset for a tab. It never mutates its input;
// ties on createdAt keep the incoming (store) order.
func Select(clients []models.Client, tab models.Status, f Filters, now time.Time) []models.Client {
	out := make([]models.Client, 0, len(clients))

	for _, c := range clients {
		if c.Status != tab {
			continue
		}
		if tab == models.StatusCalled && !matchesFilters(c, f, now) {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if f.Sort == SortOldest {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})

	return out
}

func matchesFilters(c models.Client, f Filters, now time.Time) bool {
	created := time.UnixMilli(c.CreatedAt)

	if f.Month != 0 && int(created.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && created.Year() != f.Year {
		return false
	}

	switch f.Period {
	case "", PeriodAll:
		return true
	case PeriodWeek:
		return now.Sub(created) < 7*24*time.Hour
	case PeriodMonth:
		return created.Month() == now.Month() && created.Year() == now.Year()
	case PeriodYear:
		return created.Year() == now.Year()
	default:
		return true
	}
}
