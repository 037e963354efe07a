// README: Benchmark cases for the pricing API; environment, reference scenarios and throughput.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"relo/migrations"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// estimate mirrors the fields of the estimate response the checks look at.
type estimate struct {
	Distance            float64 `json:"distance"`
	RequiresCustomQuote bool    `json:"requiresCustomQuote"`
	Band                struct {
		ID string `json:"id"`
	} `json:"band"`
	PriceBreakdown struct {
		BaseFare float64            `json:"baseFare"`
		Extras   map[string]float64 `json:"extras"`
		Total    float64            `json:"total"`
	} `json:"priceBreakdown"`
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	estimateURL := base + "/pricing/estimate"
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: statusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: statusFail, Note: "db not configured"}
				}
				if err := migrations.Apply(ctx, r.db); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				tables, err := migrationTables()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: statusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("tables=%d", len(tables))}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				status, _, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass, Latency: time.Since(start)}
			},
		},

		estimateCase("Pricing: mini-van 3km, no extras", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
			"distance":       3,
		}, expectTotal("0-5", 650)),

		estimateCase("Pricing: 1-ton-truck 8km with loading, stairs, packing", estimateURL, map[string]any{
			"vehicleClassId": "1-ton-truck",
			"distance":       8,
			"extraServices": map[string]any{
				"loading":       true,
				"loadingPeople": 2,
				"stairs":        2,
				"packing":       true,
			},
		}, expectTotal("5-10", 2050)),

		estimateCase("Pricing: insurance at 5% of declared value", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
			"distance":       3,
			"extraServices":  map[string]any{"insurance": true, "insuranceValue": 10000},
		}, func(status int, e estimate) error {
			if status != http.StatusOK {
				return fmt.Errorf("status=%d", status)
			}
			if got := e.PriceBreakdown.Extras["insurance"]; got != 500 {
				return fmt.Errorf("insurance=%.2f want 500", got)
			}
			return nil
		}),

		estimateCase("Pricing: 1500km needs custom quote", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
			"distance":       1500,
		}, expectCustomQuote),

		estimateCase("Pricing: Cape Town to Johannesburg needs custom quote", estimateURL, map[string]any{
			"vehicleClassId":  "mini-van",
			"pickupLocation":  map[string]any{"lat": -33.9249, "lng": 18.4241},
			"dropoffLocation": map[string]any{"lat": -26.2041, "lng": 28.0473},
		}, expectCustomQuote),

		estimateCase("Pricing: 999km is priced", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
			"distance":       999,
		}, expectTotal("500-1000", 11000)),

		estimateCase("Pricing: 1000km needs custom quote", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
			"distance":       1000,
		}, expectCustomQuote),

		estimateCase("Pricing: missing distance -> 400", estimateURL, map[string]any{
			"vehicleClassId": "mini-van",
		}, expectStatus(http.StatusBadRequest)),

		estimateCase("Pricing: unknown vehicle class -> 404", estimateURL, map[string]any{
			"vehicleClassId": "spaceship",
			"distance":       3,
		}, expectStatus(http.StatusNotFound)),

		{
			Name: "Perf: estimate throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, estimateURL, map[string]any{
					"vehicleClassId": "2-ton-truck",
					"distance":       42,
					"extraServices":  map[string]any{"packing": true, "waitingTime": 2},
				})
			},
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

func estimateCase(name, url string, body any, check func(status int, e estimate) error) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, raw, err := r.do(ctx, http.MethodPost, url, body)
			latency := time.Since(start)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			var e estimate
			_ = json.Unmarshal(raw, &e)
			if err := check(status, e); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func expectTotal(band string, total float64) func(int, estimate) error {
	return func(status int, e estimate) error {
		if status != http.StatusOK {
			return fmt.Errorf("status=%d", status)
		}
		if e.Band.ID != band {
			return fmt.Errorf("band=%s want %s", e.Band.ID, band)
		}
		if e.PriceBreakdown.Total != total {
			return fmt.Errorf("total=%.2f want %.2f", e.PriceBreakdown.Total, total)
		}
		return nil
	}
}

func expectCustomQuote(status int, e estimate) error {
	if status != http.StatusBadRequest || !e.RequiresCustomQuote {
		return fmt.Errorf("status=%d requiresCustomQuote=%t", status, e.RequiresCustomQuote)
	}
	return nil
}

func expectStatus(want int) func(int, estimate) error {
	return func(status int, e estimate) error {
		if status != want {
			return fmt.Errorf("status=%d want %d", status, want)
		}
		return nil
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func migrationTables() ([]string, error) {
	ms, err := migrations.All()
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, m := range ms {
		for _, match := range createTableRe.FindAllStringSubmatch(m.SQL, -1) {
			tables = append(tables, match[1])
		}
	}
	return tables, nil
}
