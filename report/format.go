package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gfscan/gfscan/session"
)

var Separator = strings.Repeat("=", 60)

func FormatTime(t time.Time) string {
	return t.Format(session.DateFormat)
}

// FormatElapsed renders a duration as H:MM:SS with a six digit fraction when
// there is one, e.g. 0:01:05.250000.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		return "-" + FormatElapsed(-d)
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	d -= seconds * time.Second
	micros := d / time.Microsecond

	text := fmt.Sprintf("%d:%02d:%02d", int64(hours), int64(minutes), int64(seconds))
	if micros > 0 {
		text = fmt.Sprintf("%s.%06d", text, int64(micros))
	}
	switch {
	case days == 1:
		text = "1 day, " + text
	case days > 1:
		text = fmt.Sprintf("%d days, %s", int64(days), text)
	}
	return text
}

// Lines returns the log lines for an event, nil for events that are not
// part of the log.
func Lines(e session.Event) []string {
	switch e.Kind {
	case session.Banner:
		return []string{Separator, e.Text, Separator}
	case session.PortResult:
		return []string{e.Result.String()}
	case session.Error:
		return []string{e.Text}
	case session.SummaryComplete:
		return []string{
			Separator,
			"Scanning Complete at : " + FormatTime(e.End),
			"Elapsed Scan Time: " + FormatElapsed(e.Elapsed),
			Separator,
		}
	}
	return nil
}
