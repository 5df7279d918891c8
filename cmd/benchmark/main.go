// Command benchmark drives concurrent transfer load against a running
// gateway: a pool of workers fire fresh-keyed transfers, then a second wave
// deliberately reuses one idempotency key across several concurrent callers
// to exercise dedupe, against the UUID-keyed JSON /transfer contract.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var (
	targetURL   string
	fromAccount string
	toAccount   string
	concurrency int
	iterations  int
	amount      int64
	reuseKeys   int
)

// 200 covers both a freshly computed SUCCESS/FAILED transfer and an
// idempotent replay; 409 is a lock conflict.
var (
	totalRequests uint64
	success200    uint64
	conflict409   uint64
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8000", "gateway base URL")
	flag.StringVar(&fromAccount, "from", "00000000-0000-0000-0000-0000000000a1", "source account id")
	flag.StringVar(&toAccount, "to", "00000000-0000-0000-0000-0000000000b1", "destination account id")
	flag.IntVar(&concurrency, "workers", 20, "number of concurrent workers")
	flag.IntVar(&iterations, "iterations", 10, "transfers per worker")
	flag.Int64Var(&amount, "amount", 1, "amount per transfer, minor units")
	flag.IntVar(&reuseKeys, "reuse-keys", 5, "extra requests sent with one shared idempotency key, to exercise dedupe")
}

func main() {
	flag.Parse()
	log.Printf("benchmark: %s -> %s | workers=%d iterations=%d amount=%d", fromAccount, toAccount, concurrency, iterations, amount)

	client := &http.Client{Timeout: 30 * time.Second}

	before, err := getBalance(client, fromAccount)
	if err != nil {
		log.Fatalf("baseline balance check failed: %v", err)
	}
	log.Printf("before: %s balance=%d", fromAccount, before.Balance)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				transfer(client, uuid.NewString())
			}
		}()
	}
	wg.Wait()

	// A handful of calls deliberately reusing one key, confirming the
	// gateway's idempotency path collapses them to one ledger pair.
	sharedKey := "bench-shared-" + uuid.NewString()
	var dupeWG sync.WaitGroup
	dupeWG.Add(reuseKeys)
	for i := 0; i < reuseKeys; i++ {
		go func() {
			defer dupeWG.Done()
			transfer(client, sharedKey)
		}()
	}
	dupeWG.Wait()

	elapsed := time.Since(start)

	after, err := getBalance(client, fromAccount)
	if err != nil {
		log.Fatalf("final balance check failed: %v", err)
	}
	log.Printf("after: %s balance=%d", fromAccount, after.Balance)

	printResults(elapsed)
}

type transferPayload struct {
	FromAccount    string `json:"from_account"`
	ToAccount      string `json:"to_account"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

func transfer(client *http.Client, idempotencyKey string) {
	payload := transferPayload{
		FromAccount:    fromAccount,
		ToAccount:      toAccount,
		Amount:         amount,
		Currency:       "INR",
		IdempotencyKey: idempotencyKey,
	}
	body, _ := json.Marshal(payload)

	resp, err := client.Post(targetURL+"/transfer", "application/json", bytes.NewReader(body))
	atomic.AddUint64(&totalRequests, 1)
	if err != nil {
		atomic.AddUint64(&failOther, 1)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		atomic.AddUint64(&success200, 1)
	case http.StatusConflict:
		atomic.AddUint64(&conflict409, 1)
	default:
		atomic.AddUint64(&failOther, 1)
	}
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
}

func getBalance(client *http.Client, accountID string) (*balanceResponse, error) {
	resp, err := client.Get(targetURL + "/balance/" + accountID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode balance response: %w", err)
	}
	return &out, nil
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	ok := atomic.LoadUint64(&success200)
	conflict := atomic.LoadUint64(&conflict409)
	other := atomic.LoadUint64(&failOther)

	results := map[string]interface{}{
		"duration_sec":   d.Seconds(),
		"total_requests": total,
		"throughput_tps": float64(total) / d.Seconds(),
		"success_200":    ok,
		"conflict_409":   conflict,
		"errors":         other,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)
}
