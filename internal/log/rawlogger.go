package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records CEC frames as they cross the adapter.
type RawLogger interface {
	// Log records one frame. rx is true for frames received from the bus.
	Log(rx bool, frame []byte)
}

type rawLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewRaw returns a RawLogger writing to w; a nil w discards everything.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w, now: time.Now}
}

func (r *rawLogger) Log(rx bool, frame []byte) {
	if r.w == nil || len(frame) == 0 {
		return
	}

	dir := ">>"
	if rx {
		dir = "<<"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s ", r.now().Format("2006/01/02 15:04:05.000"), dir)
	const hexdigits = "0123456789abcdef"
	for i, b := range frame {
		if i > 0 {
			buf.WriteByte(':')
		}
		buf.WriteByte(hexdigits[b>>4])
		buf.WriteByte(hexdigits[b&0x0f])
	}
	buf.WriteByte('\n')

	r.mu.Lock()
	_, _ = r.w.Write(buf.Bytes())
	r.mu.Unlock()
}
