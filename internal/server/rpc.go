package server

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	uuid "github.com/satori/go.uuid"
	"go.uber.org/zap"

	"github.com/muurk/devscan/internal/events"
	"github.com/muurk/devscan/internal/logging"
	"github.com/muurk/devscan/internal/output"
	"github.com/muurk/devscan/internal/progress"
	"github.com/muurk/devscan/internal/scanner"
	"github.com/muurk/devscan/internal/subnet"
)

// ErrScanInProgress is returned when a scan is requested while another one
// is still running.
var ErrScanInProgress = errors.New("a scan is already in progress")

// ScanArgs are the parameters of ScanService.Scan. Zero values fall back to
// the server's defaults.
type ScanArgs struct {
	Subnet         string
	Threads        int
	TimeoutMs      int
	Verbose        bool
	IdentifiedOnly bool
	Rate           int
	Scheme         string
	Path           string
}

// ScanReply is the result of ScanService.Scan.
type ScanReply struct {
	ScanID  string
	Hosts   int
	Devices []output.Record
	Status  string
}

// StatusArgs are the (empty) parameters of ScanService.Status.
type StatusArgs struct{}

// ScanService is the JSON-RPC service registered at /rpc.
type ScanService struct {
	server *Server
}

// Scan runs a scan to completion and replies with every device found.
// Progress is broadcast on /events while it runs. The scan stops early if
// the client goes away.
func (h *ScanService) Scan(r *http.Request, args *ScanArgs, reply *ScanReply) error {
	s := h.server
	if !s.busy.CompareAndSwap(false, true) {
		return ErrScanInProgress
	}
	defer s.busy.Store(false)

	args.Subnet = strings.TrimSpace(args.Subnet)
	addrs, err := subnet.Expand(args.Subnet)
	if err != nil {
		return err
	}

	cfg := s.scanConfig(args)
	id := uuid.NewV4().String()
	logging.LogScanStart(args.Subnet, len(addrs), cfg.Threads, cfg.Probe.Timeout.Milliseconds())
	logging.Info("Scan requested over RPC", zap.String("scan_id", id), zap.String("remote_addr", r.RemoteAddr))

	s.hub.Broadcast(Event{Type: EventStarted, ScanID: id, Total: len(addrs), Text: args.Subnet})

	progressQ := events.NewQueue[events.Progress]()
	foundQ := events.NewQueue[scanner.Device]()

	var (
		wg   sync.WaitGroup
		done int
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		for ev := range progressQ.C() {
			switch ev.Kind {
			case events.ProgressIncrement:
				done++
				s.hub.Broadcast(Event{Type: EventProgress, ScanID: id, Done: done, Total: len(addrs)})
			case events.ProgressMessage:
				s.hub.Broadcast(Event{Type: EventMessage, ScanID: id, Text: ev.Text})
			}
		}
	}()
	go func() {
		defer wg.Done()
		for d := range foundQ.C() {
			rec := output.NewRecord(d, time.Now())
			s.hub.Broadcast(Event{Type: EventDevice, ScanID: id, Device: &rec})
		}
	}()

	devices, err := s.newScanner(cfg).Scan(r.Context(), addrs, scanner.Sinks{
		Progress: progressQ,
		Found:    foundQ,
	})
	progressQ.Close()
	foundQ.Close()
	wg.Wait()

	if err != nil {
		s.hub.Broadcast(Event{Type: EventFinished, ScanID: id, Status: "failed", Text: err.Error()})
		return err
	}

	status := progress.StatusComplete
	if done < len(addrs) {
		status = progress.StatusStopped
	}

	s.scans.Inc()
	s.devices.Add(int64(len(devices)))
	s.hub.Broadcast(Event{Type: EventFinished, ScanID: id, Done: done, Total: len(addrs), Status: status.String()})

	reply.ScanID = id
	reply.Hosts = len(addrs)
	reply.Devices = output.Records(devices)
	reply.Status = status.String()
	return nil
}

// Status replies with the server's counters.
func (h *ScanService) Status(r *http.Request, args *StatusArgs, reply *Stats) error {
	*reply = h.server.Stats()
	return nil
}

// scanConfig overlays args on the server's default scan configuration.
func (s *Server) scanConfig(args *ScanArgs) scanner.Config {
	cfg := s.config.Scan
	if args.Threads > 0 {
		cfg.Threads = args.Threads
	}
	if args.TimeoutMs > 0 {
		cfg.Probe.Timeout = time.Duration(args.TimeoutMs) * time.Millisecond
	}
	if args.Rate > 0 {
		cfg.Rate = args.Rate
	}
	if args.Scheme != "" {
		cfg.Probe.Scheme = args.Scheme
	}
	if args.Path != "" {
		cfg.Probe.Path = args.Path
	}
	cfg.Verbose = cfg.Verbose || args.Verbose
	cfg.IdentifiedOnly = cfg.IdentifiedOnly || args.IdentifiedOnly
	return cfg
}
