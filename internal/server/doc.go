// Package server runs devscan as a long-lived control service.
//
// Scans are requested over JSON-RPC at /rpc and run one at a time. Clients
// connected to /events receive every scan's progress as JSON messages over
// a websocket.
//
// # RPC
//
// The service is registered as "ScanService":
//
//	ScanService.Scan    {"Subnet": "10.208.x.x", "Threads": 20}  -> ScanReply
//	ScanService.Status  {}                                      -> Stats
//
// Fields left at zero fall back to the server's default scan configuration.
// A Scan request made while another scan is running fails with
// ErrScanInProgress.
//
// # Events
//
// Each message on /events is an Event with one of these types:
//
//	started   a scan began; total is the number of hosts
//	progress  one more host finished; done and total are set
//	message   a per-host line, e.g. "Valid device page on 10.0.5.1: Cisco Router"
//	device    a device was found; device holds its record
//	finished  the scan ended; status is "complete", "stopped early" or "failed"
//
// Slow clients are disconnected rather than holding up the scan.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{
//	    Addr: ":8080",
//	    Scan: scanner.DefaultConfig(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Start blocks until SIGINT/SIGTERM or a listener error
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
package server
