package transport

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"squitter/internal/fifo"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestDriverFeedsFrameIntoFIFO(t *testing.T) {
	pr, pw := io.Pipe()
	f := fifo.New(4)
	d := NewDriver(pr, f, silentLogger())

	ctx := context.Background()
	d.Start(ctx)
	defer d.Stop()
	defer pw.Close()

	go pw.Write([]byte("*8DABCDEF04000000000000000000;"))

	require.Eventually(t, func() bool {
		_, ok := f.GetReadSlot()
		return ok
	}, time.Second, time.Millisecond)

	slot, ok := f.GetReadSlot()
	require.True(t, ok)
	assert.Equal(t, byte(0x8D), slot[0])
}

func TestDriverStopsOnReadError(t *testing.T) {
	pr, pw := io.Pipe()
	f := fifo.New(4)
	d := NewDriver(pr, f, silentLogger())

	d.Start(context.Background())
	pw.CloseWithError(io.ErrClosedPipe)

	done := make(chan struct{})
	go func() {
		d.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("driver did not stop after transport failure")
	}
}
