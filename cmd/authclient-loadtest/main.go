// Command authclient-loadtest stresses the client's hot paths: permission
// checks and route guards under many goroutines, and the single-flight
// refresh under bursts of concurrent 401 storms. The backend is an
// in-process stub; token storage runs on miniredis so the Redis driver is
// on the measured path.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	authclient "github.com/medlan/authclient"
)

var routes = []string{"/", "/pos", "/products", "/inventory", "/sales", "/users", "/settings", "/audit-logs"}

func signToken(ttl time.Duration) string {
	claims := gojwt.MapClaims{
		"sub":      "u-load",
		"username": "loadtest",
		"role":     "CASHIER",
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	tok, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("load-secret"))
	return tok
}

func stubBackend(refreshHits *atomic.Int64) *httptest.Server {
	user := authclient.User{ID: "u-load", Username: "loadtest", Role: "CASHIER"}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{
			"user": user, "accessToken": signToken(15 * time.Minute), "refreshToken": "rt-1",
		}})
	})
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, _ *http.Request) {
		refreshHits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{
			"accessToken": signToken(15 * time.Minute), "refreshToken": "rt-2",
		}})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{}})
	})
	return httptest.NewServer(mux)
}

func main() {
	var (
		concurrency = flag.Int("concurrency", 64, "number of concurrent workers")
		guardOps    = flag.Int("guard-ops", 1_000_000, "total guard/permission checks")
		bursts      = flag.Int("refresh-bursts", 50, "number of concurrent refresh bursts")
		burstSize   = flag.Int("burst-size", 32, "goroutines per refresh burst")
	)
	flag.Parse()

	if *concurrency <= 0 || *guardOps <= 0 || *bursts <= 0 || *burstSize <= 0 {
		fmt.Fprintln(os.Stderr, "all flags must be > 0")
		os.Exit(2)
	}

	var refreshHits atomic.Int64
	backend := stubBackend(&refreshHits)
	defer backend.Close()

	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniredis: %v\n", err)
		os.Exit(1)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	client, err := authclient.New().
		WithBaseURL(backend.URL).
		WithRedis(rdb).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Login(ctx, authclient.Credentials{Username: "loadtest", Password: "x"}); err != nil {
		fmt.Fprintf(os.Stderr, "login: %v\n", err)
		os.Exit(1)
	}

	// ---- phase 1: guard and permission checks ----
	fmt.Printf("phase 1: %d guard checks across %d workers\n", *guardOps, *concurrency)
	perWorker := *guardOps / *concurrency
	latencies := make([][]time.Duration, *concurrency)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			lats := make([]time.Duration, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				t0 := time.Now()
				client.Guard(routes[i%len(routes)])
				client.HasPermission("ACCESS_POS")
				lats = append(lats, time.Since(t0))
			}
			latencies[w] = lats
		}(w)
	}
	wg.Wait()
	guardElapsed := time.Since(start)

	var all []time.Duration
	for _, lats := range latencies {
		all = append(all, lats...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	total := len(all)
	fmt.Printf("  %.0f checks/sec, p50=%v p99=%v\n",
		float64(total)/guardElapsed.Seconds(), all[total/2], all[total*99/100])

	// ---- phase 2: refresh single-flight under bursts ----
	fmt.Printf("phase 2: %d bursts of %d concurrent refreshes\n", *bursts, *burstSize)
	start = time.Now()
	for b := 0; b < *bursts; b++ {
		var bw sync.WaitGroup
		for g := 0; g < *burstSize; g++ {
			bw.Add(1)
			go func() {
				defer bw.Done()
				if _, err := client.Refresh(ctx); err != nil {
					fmt.Fprintf(os.Stderr, "refresh: %v\n", err)
				}
			}()
		}
		bw.Wait()
	}
	refreshElapsed := time.Since(start)

	attempted := int64(*bursts) * int64(*burstSize)
	hits := refreshHits.Load()
	fmt.Printf("  %d refresh calls attempted, %d reached the server (%.1f%% coalesced) in %v\n",
		attempted, hits, 100*float64(attempted-hits)/float64(attempted), refreshElapsed)

	snap := client.MetricsSnapshot()
	fmt.Printf("counters: allowed=%d denied=%d refresh_ok=%d coalesced=%d\n",
		snap.Counters[authclient.MetricRouteAllowed],
		snap.Counters[authclient.MetricRouteDenied],
		snap.Counters[authclient.MetricRefreshSuccess],
		snap.Counters[authclient.MetricRefreshCoalesced])
}
