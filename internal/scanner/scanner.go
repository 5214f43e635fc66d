package scanner

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/muurk/devscan/internal/events"
	"github.com/muurk/devscan/internal/fingerprint"
	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/probe"
	"github.com/muurk/devscan/internal/subnet"
)

// Prober probes a single host. *probe.Prober implements it.
type Prober interface {
	Probe(ctx context.Context, addr string) probe.Outcome
}

// Sinks are the optional consumers of scan events. Scan only sends on
// them; the caller runs the consumers and closes the queues afterwards.
type Sinks struct {
	Progress *events.Queue[events.Progress]
	Append   *events.Queue[events.Append]
	Found    *events.Queue[Device]
}

// Scanner dispatches probes over a pool of workers.
type Scanner struct {
	Config Config

	// NewProber creates one prober per worker. Defaults to probe.New
	// with Config.Probe.
	NewProber func() (Prober, error)

	// Out receives per-host lines when no progress sink is given.
	Out io.Writer
}

// New creates a Scanner with the default prober factory.
func New(cfg Config) *Scanner {
	s := &Scanner{
		Config: cfg,
		Out:    os.Stdout,
	}
	s.NewProber = func() (Prober, error) {
		return probe.New(s.Config.Probe)
	}
	return s
}

// Scan probes every address and returns the devices that answered.
//
// The address list is split into Config.Threads contiguous chunks, each
// probed sequentially by its own worker. Results are concatenated in the
// order workers finish. A worker that panics contributes nothing; the
// rest of the scan is unaffected. Configuration errors are returned before
// any host is probed.
func (s *Scanner) Scan(ctx context.Context, addrs []string, sinks Sinks) ([]Device, error) {
	if err := s.Config.Validate(len(addrs)); err != nil {
		return nil, err
	}

	chunks, err := subnet.Partition(addrs, s.Config.Threads)
	if err != nil {
		return nil, &ConfigError{Field: "threads", Message: "cannot partition addresses", Err: err}
	}

	probers := make([]Prober, len(chunks))
	for i := range probers {
		if probers[i], err = s.NewProber(); err != nil {
			return nil, &ConfigError{Field: "probe", Message: "cannot create prober", Err: err}
		}
	}

	var limiter *rate.Limiter
	if s.Config.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.Config.Rate), 1)
	}

	out := s.Out
	if out == nil {
		out = io.Discard
	}
	lines := zapcore.Lock(zapcore.AddSync(out))

	results := make(chan []Device, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		chunk := chunk
		w := &worker{
			id:      i,
			cfg:     s.Config,
			prober:  probers[i],
			limiter: limiter,
			sinks:   sinks,
			lines:   lines,
		}
		g.Go(func() error {
			if devices, ok := w.run(ctx, chunk); ok {
				results <- devices
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	var devices []Device
	for batch := range results {
		devices = append(devices, batch...)
	}

	// The reporter has already finished if every host was counted.
	if sinks.Progress != nil {
		sinks.Progress.Send(events.CloseProgress())
	}
	if sinks.Append != nil {
		sinks.Append.Send(events.CloseAppend())
	}

	return devices, nil
}

// worker probes one chunk of addresses in order.
type worker struct {
	id      int
	cfg     Config
	prober  Prober
	limiter *rate.Limiter
	sinks   Sinks
	lines   zapcore.WriteSyncer
}

func (w *worker) run(ctx context.Context, chunk []string) (devices []Device, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("Worker crashed, discarding its results",
				zap.Int("worker", w.id),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			devices, ok = nil, false
		}
	}()

	for _, addr := range chunk {
		if ctx.Err() != nil {
			break
		}
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				break
			}
		}

		if d, found := w.probe(ctx, addr); found {
			devices = append(devices, d)
		}

		if w.sinks.Progress != nil {
			w.sinks.Progress.Send(events.Increment())
		}
	}

	return devices, true
}

func (w *worker) probe(ctx context.Context, addr string) (Device, bool) {
	outcome := w.prober.Probe(ctx, addr)

	if err := outcome.Err; err != nil {
		logging.LogProbe(addr, err.Type.String(), zap.Error(err))
		switch {
		case ctx.Err() != nil:
			// Interrupted mid-request; the scan is stopping.
		case probe.IsTimeout(err):
			if w.cfg.Verbose {
				w.say(fmt.Sprintf("Timed out: %s", addr))
			}
		case probe.IsConnectionRefused(err):
			if w.cfg.Verbose {
				w.say(fmt.Sprintf("Connection refused: %s (%s)", addr, err.Message))
			}
		default:
			w.say(fmt.Sprintf("Error probing %s: %v", addr, err.Err))
		}
		return Device{}, false
	}

	logging.LogProbe(addr, outcome.Variant.String(), zap.Int("status_code", outcome.StatusCode))
	if w.cfg.IdentifiedOnly && !fingerprint.Identified(outcome.Variant) {
		return Device{}, false
	}

	d := Device{
		Address:    addr,
		Variant:    outcome.Variant,
		Title:      outcome.Title,
		StatusCode: outcome.StatusCode,
	}
	w.say(fmt.Sprintf("Valid device page on %s: %s", addr, d.Variant))

	if w.sinks.Append != nil {
		w.sinks.Append.Send(events.Amendment(FormatLine(d)))
	}
	if w.sinks.Found != nil {
		w.sinks.Found.Send(d)
	}
	return d, true
}

// say shows a per-host line above the progress indicator, or writes it
// directly when there is none.
func (w *worker) say(line string) {
	if w.sinks.Progress != nil {
		w.sinks.Progress.Send(events.Message(line))
		return
	}
	_, _ = w.lines.Write([]byte(line + "\n"))
}
