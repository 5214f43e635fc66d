// Package probe fetches the landing page of a single host and classifies it.
//
// Each Prober owns its own http.Client, so workers never share connection
// state. Probes skip certificate validation, never follow redirects and
// treat any HTTP status as an answer:
//
//	p, err := probe.New(probe.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	out := p.Probe(ctx, "10.0.5.1")
//	switch {
//	case out.Err == nil:
//	    fmt.Println(out.Variant)
//	case probe.IsTimeout(out.Err):
//	    // host did not answer in time
//	}
//
// # Error Taxonomy
//
// Transport failures are mapped by ClassifyError to one of three types:
//
//   - ErrTypeTimeout: no answer within Config.Timeout
//   - ErrTypeConnectionRefused: refused, host unreachable or network unreachable
//   - ErrTypeOther: everything else (TLS failures, malformed responses)
//
// # Body Decoding
//
// Bodies are decompressed according to Content-Encoding (gzip, deflate, br)
// and transcoded to UTF-8 with golang.org/x/net/html/charset. A body that
// cannot be read is classified as empty text rather than failing the probe.
package probe
