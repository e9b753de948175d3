package log

import (
	"time"

	"github.com/Pp3ng/blitz-logger/formatter"
	"github.com/Pp3ng/blitz-logger/ring"
)

// idleReapThreshold is the number of consecutive empty drain cycles an
// inactive buffer tolerates before the registry reclaims it. Go has no
// goroutine-exit hook to deregister a producer deterministically, so idle
// detection substitutes for the destructor the original thread-local
// buffer relied on.
const idleReapThreshold = 64

// drainLoop is the single background consumer that polls every registered
// producer buffer round-robin, formats what it finds, and fans it out to
// the configured sinks. Grounded on the teacher's processor goroutine:
// same single-goroutine-owns-the-sinks structure, same flush-request and
// stop-channel handshake, restructured around polling many SPSC buffers
// instead of reading one shared channel.
type drainLoop struct {
	registry *BufferRegistry
	console  *consoleSink
	file     *fileSink
	fmt      *formatter.Formatter
	state    *State

	batchSize int
	idleSleep time.Duration
	busySleep time.Duration

	stopCh  chan struct{}
	doneCh  chan struct{}
	flushCh chan chan struct{}

	pendingConsoleLines []formattedLine
	pendingFileLines    [][]byte
}

func newDrainLoop(cfg *Config, registry *BufferRegistry, console *consoleSink, file *fileSink, f *formatter.Formatter, state *State) *drainLoop {
	return &drainLoop{
		registry:  registry,
		console:   console,
		file:      file,
		fmt:       f,
		state:     state,
		batchSize: cfg.BatchSize,
		idleSleep: time.Duration(cfg.DrainIdleSleepUs) * time.Microsecond,
		busySleep: time.Duration(cfg.DrainBusySleepUs) * time.Microsecond,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
}

func (d *drainLoop) run() {
	defer close(d.doneCh)

	for {
		select {
		case <-d.stopCh:
			d.drainToEmpty()
			return
		case confirm := <-d.flushCh:
			for d.drainCycle(d.batchSize) > 0 {
			}
			d.syncSinks()
			close(confirm)
		default:
			n := d.drainCycle(d.batchSize)
			if n == 0 {
				time.Sleep(d.idleSleep)
				continue
			}
			if d.anyNearlyFull() {
				time.Sleep(d.busySleep)
			} else {
				time.Sleep(d.idleSleep)
			}
		}
	}
}

// drainCycle performs one round-robin pass across every registered
// buffer, popping at most cap/len(buffers) records from each (so one
// noisy producer cannot starve the others within a single cycle) until
// the overall batch cap is reached. It returns the number of records
// drained.
func (d *drainLoop) drainCycle(batchCap int) int {
	slots := d.registry.snapshot()
	if len(slots) == 0 {
		return 0
	}

	perBuffer := batchCap / len(slots)
	if perBuffer == 0 {
		perBuffer = 1
	}

	total := 0
	var rec ring.Record
	for _, slot := range slots {
		popped := 0
		for popped < perBuffer && total < batchCap {
			if !slot.buf.TryPop(&rec) {
				break
			}
			d.emit(rec)
			popped++
			total++
		}
		d.trackIdle(slot)
	}

	if total > 0 {
		d.flushBatches()
	}
	return total
}

// trackIdle reaps a buffer whose owning goroutine appears to have exited:
// inactive and empty for idleReapThreshold consecutive cycles.
func (d *drainLoop) trackIdle(slot *producerSlot) {
	if slot.buf.Active() || slot.buf.Size() > 0 {
		slot.idleCycles = 0
		return
	}
	slot.idleCycles++
	if slot.idleCycles >= idleReapThreshold {
		d.registry.reap(slot.gid)
	}
}

func (d *drainLoop) anyNearlyFull() bool {
	for _, slot := range d.registry.snapshot() {
		if slot.buf.NearlyFull() {
			return true
		}
	}
	return false
}

// drainToEmpty is used on shutdown: it keeps cycling in smaller
// sub-batches until every registered buffer reports empty, so a final
// burst of records pushed just before Shutdown is not lost.
func (d *drainLoop) drainToEmpty() {
	const subBatch = 4096
	for {
		drained := d.drainCycle(subBatch)
		allEmpty := true
		for _, slot := range d.registry.snapshot() {
			if slot.buf.Size() > 0 {
				allEmpty = false
				break
			}
		}
		if drained == 0 && allEmpty {
			break
		}
	}
	d.syncSinks()
}

func (d *drainLoop) emit(rec ring.Record) {
	line := d.fmt.Format(formatter.Record{
		Message:   rec.Message,
		Level:     Level(rec.Level).String(),
		Timestamp: rec.Timestamp,
		Module:    rec.Module,
		File:      rec.File,
		Line:      rec.Line,
		ThreadID:  rec.ThreadID,
	})

	buf := make([]byte, len(line))
	copy(buf, line)

	if d.console != nil {
		d.pendingConsoleLines = append(d.pendingConsoleLines, formattedLine{level: Level(rec.Level), bytes: buf})
	}
	if d.file != nil {
		d.pendingFileLines = append(d.pendingFileLines, buf)
	}

	d.state.TotalLogsProcessed.Add(1)
}

func (d *drainLoop) flushBatches() {
	if d.file != nil && len(d.pendingFileLines) > 0 {
		if err := d.file.writeBatch(d.pendingFileLines); err != nil {
			d.state.DegradedSink.Store(true)
		} else {
			d.state.DegradedSink.Store(false)
		}
		d.pendingFileLines = d.pendingFileLines[:0]
	}
	if d.console != nil && len(d.pendingConsoleLines) > 0 {
		_ = d.console.writeBatch(d.pendingConsoleLines)
		d.pendingConsoleLines = d.pendingConsoleLines[:0]
	}
}

func (d *drainLoop) syncSinks() {
	if d.file != nil {
		_ = d.file.sync()
	}
}

func (d *drainLoop) requestFlush(timeout time.Duration) error {
	confirm := make(chan struct{})
	select {
	case d.flushCh <- confirm:
	case <-time.After(timeout):
		return fmtErrorf("flush request timed out after %v", timeout)
	}
	select {
	case <-confirm:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("flush confirmation timed out after %v", timeout)
	}
}

func (d *drainLoop) stop(timeout time.Duration) error {
	close(d.stopCh)
	select {
	case <-d.doneCh:
		return nil
	case <-time.After(timeout):
		return fmtErrorf("drain loop did not exit within %v", timeout)
	}
}
