// Package smoke runs end-to-end checks against a deployed blog API.
package smoke

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

type Result struct {
	Check   Check
	Status  int
	Latency time.Duration
	Err     error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

type Runner struct {
	baseURL     string
	client      *http.Client
	concurrency int
}

type Option func(*Runner)

func WithHTTPClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

func NewRunner(baseURL string, opts ...Option) *Runner {
	r := &Runner{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		client:      &http.Client{Timeout: 10 * time.Second},
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every check and returns results in check order. A failing
// check never stops the others.
func (r *Runner) Run(ctx context.Context, checks []Check) []Result {
	results := make([]Result, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range checks {
		g.Go(func() error {
			results[i] = r.run(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) run(ctx context.Context, c Check) Result {
	res := Result{Check: c}

	method := c.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+c.Path, nil)
	if err != nil {
		res.Err = fmt.Errorf("create request: %w", err)
		return res
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		res.Err = fmt.Errorf("request: %w", err)
		return res
	}
	defer resp.Body.Close()
	res.Latency = time.Since(start)
	res.Status = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Err = fmt.Errorf("read response: %w", err)
		return res
	}

	if resp.StatusCode != c.Status {
		res.Err = fmt.Errorf("status %d, want %d", resp.StatusCode, c.Status)
		return res
	}
	if c.Expect != nil {
		res.Err = c.Expect(body)
	}
	return res
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed() {
			n++
		}
	}
	return n
}

func WriteTable(results []Result, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "Check\tRequest\tStatus\tLatency\tResult")
	fmt.Fprintln(tw, "---\t---\t---\t---\t---")
	for _, r := range results {
		method := r.Check.Method
		if method == "" {
			method = http.MethodGet
		}
		outcome := "PASS"
		if r.Err != nil {
			outcome = "FAIL: " + r.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%d\t%s\t%s\n",
			r.Check.Name, method, r.Check.Path, r.Status, r.Latency.Round(time.Millisecond), outcome)
	}
	fmt.Fprintf(tw, "\n%d/%d checks passed\n", len(results)-Failed(results), len(results))

	tw.Flush()
}
