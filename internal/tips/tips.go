// Package tips rotates short hints about tally commands.
package tips

import "time"

var all = []string{
	"`tally today -i` opens an interactive checklist for today.",
	"`tally done <habit>` twice un-checks a once-per-day habit.",
	"`tally undo <habit>` counts a repeatable habit down by one.",
	"`tally habit add Water --type repeatable` tracks how many times, not just whether.",
	"`tally done read --today yesterday` back-fills a day you forgot.",
	"`tally stats --from 2024-01-01` limits the numbers to a date range.",
	"`tally weekly --weeks 12` shows a quarter at a glance.",
	"`tally monthly` finds your best day each month.",
	"`tally calendar --habit <name>` draws one habit's year as a heatmap.",
	"`tally streaks` lists every habit's current and longest run.",
	"`tally template add Weekend --use` switches to a new set of habits.",
	"`tally stats -t <template>` reads another template without switching.",
	"`tally stats --json | jq` pipes the numbers anywhere.",
	"`tally config set stats.weeks 12` changes the default weekly window.",
	"`tally config set store.driver postgres` moves the ledger to Postgres.",
	"Habit names match by prefix: `tally done med` finds Meditate.",
}

// All returns all tips in the pool.
func All() []string {
	return all
}

// Daily returns a deterministic tip for the given day.
// The same tip is returned all day; it changes each day.
func Daily(t time.Time) string {
	return all[t.YearDay()%len(all)]
}
