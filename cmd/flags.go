package cmd

import (
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/rnwolfe/tally/internal/day"
)

// dayValue is a pflag.Value holding a calendar-day key. It also accepts
// "today" and "yesterday".
type dayValue struct {
	key string
}

var _ pflag.Value = (*dayValue)(nil)

func (d *dayValue) String() string { return d.key }

func (d *dayValue) Type() string { return "date" }

func (d *dayValue) Set(s string) error {
	now := time.Now()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		d.key = day.Today(now)
		return nil
	case "yesterday":
		d.key = day.Today(now.AddDate(0, 0, -1))
		return nil
	}
	if _, err := day.Parse(s); err != nil {
		return err
	}
	d.key = s
	return nil
}
