package location

import (
	"bufio"
	"context"
	"io"

	"github.com/adrianmo/go-nmea"
	"github.com/sirupsen/logrus"
)

// NMEAFeed reads line-delimited NMEA sentences off r and keeps a Holder
// updated with the latest fix, the way the engine's transport driver keeps
// the plane FIFO fed — a dedicated goroutine owns the reader, and any
// number of viewers read the resulting position through Holder.Position.
type NMEAFeed struct {
	r      io.Reader
	holder *Holder
	log    *logrus.Logger
}

// NewNMEAFeed creates a feed reading from r into holder.
func NewNMEAFeed(r io.Reader, holder *Holder, log *logrus.Logger) *NMEAFeed {
	return &NMEAFeed{r: r, holder: holder, log: log}
}

// Run reads sentences from the feed's reader until ctx is canceled or the
// reader returns an error (including io.EOF). GGA and RMC sentences with a
// valid fix update the holder; anything else is ignored.
func (f *NMEAFeed) Run(ctx context.Context) {
	scanner := bufio.NewScanner(f.r)
	lines := make(chan string)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			f.handleLine(line)
		}
	}
}

func (f *NMEAFeed) handleLine(line string) {
	sentence, err := nmea.Parse(line)
	if err != nil {
		return
	}

	switch s := sentence.(type) {
	case nmea.GGA:
		if s.FixQuality == nmea.Invalid {
			return
		}
		f.holder.Set(s.Latitude, s.Longitude)

	case nmea.RMC:
		if s.Validity != nmea.ValidRMC {
			return
		}
		f.holder.Set(s.Latitude, s.Longitude)

	}
}
