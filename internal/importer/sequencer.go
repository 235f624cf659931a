package importer

import (
	"fmt"
	"time"
)

// TransferSequence numbers the transfer pairs of one load. Labels read
// YYYYMMDD_n where n counts the pairs already written for that calendar day
// and restarts at 0 when the day changes. A zero value is ready to use.
type TransferSequence struct {
	day     time.Time
	started bool
	count   int
}

// Observe returns the label for the next transfer on date.
func (s *TransferSequence) Observe(date time.Time) string {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	if !s.started || !day.Equal(s.day) {
		s.day = day
		s.started = true
		s.count = 0
	}
	return fmt.Sprintf("%s_%d", day.Format("20060102"), s.count)
}

// Advance moves past a label once both legs of its pair are written.
func (s *TransferSequence) Advance() {
	s.count++
}
