package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PartySize int    `json:"partySize"`
	Status    string `json:"status"`
	Position  int    `json:"position"`
}

var (
	apiURL       = flag.String("api", "http://localhost:3001", "Waitlist API base URL")
	redisURL     = flag.String("redis", "localhost:6379", "Redis URL (host:port)")
	redisPass    = flag.String("password", "", "Redis password")
	numParties   = flag.Int("parties", 20, "Number of parties to join")
	maxParty     = flag.Int("max-party", 6, "Largest party size to generate")
	joinRate     = flag.Duration("join-rate", 200*time.Millisecond, "Time between joins")
	pollInterval = flag.Duration("poll", 2*time.Second, "Status poll interval for parties without a socket event")
	noShowRate   = flag.Float64("no-show-rate", 0.0, "Probability that a ready party never checks in (0.0-1.0)")
)

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     *redisURL,
		Password: *redisPass,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Printf("Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Connected to Redis at %s\n", *redisURL)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		seated  int
		noShows int
	)

	fmt.Printf("\n🚀 Joining %d parties...\n", *numParties)
	for i := 0; i < *numParties; i++ {
		c, err := join(ctx, fmt.Sprintf("party-%d", i+1), 1+rand.Intn(*maxParty))
		if err != nil {
			fmt.Printf("❌ Join failed: %v\n", err)
			continue
		}
		fmt.Printf("   #%d size=%d status=%s position=%d\n", c.ID, c.PartySize, c.Status, c.Position)

		wg.Add(1)
		go func(c *Customer) {
			defer wg.Done()
			if !awaitTable(ctx, c) {
				return
			}
			if rand.Float64() < *noShowRate {
				mu.Lock()
				noShows++
				mu.Unlock()
				fmt.Printf("👻 #%d never showed up\n", c.ID)
				return
			}
			if err := checkIn(ctx, c.ID); err != nil {
				fmt.Printf("❌ #%d check-in failed: %v\n", c.ID, err)
				return
			}
			mu.Lock()
			seated++
			mu.Unlock()
			fmt.Printf("🍽️  #%d seated (%d people)\n", c.ID, c.PartySize)
		}(c)

		if *joinRate > 0 {
			time.Sleep(*joinRate)
		}
	}

	go printStats(ctx, rdb)

	wg.Wait()
	cancel()

	fmt.Println("\n📊 Final Statistics:")
	fmt.Printf("   Seated: %d\n", seated)
	fmt.Printf("   No-shows: %d\n", noShows)
	fmt.Printf("   Available seats: %s\n", rdb.Get(context.Background(), "waitlist:available_seats").Val())
}

// awaitTable waits for the tableReady socket event, falling back to status polling.
func awaitTable(ctx context.Context, c *Customer) bool {
	if c.Status == "tableReady" {
		return true
	}

	ready := make(chan struct{}, 1)
	if conn, err := subscribe(c.ID); err == nil {
		defer conn.Close()
		go func() {
			var frame struct {
				Event string `json:"event"`
			}
			if err := conn.ReadJSON(&frame); err == nil && frame.Event == "tableReady" {
				ready <- struct{}{}
			}
		}()
	}

	ticker := time.NewTicker(*pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ready:
			return true
		case <-ticker.C:
			st, err := status(ctx, c.ID)
			if err == nil && st.Status == "tableReady" {
				return true
			}
		}
	}
}

func subscribe(id int64) (*websocket.Conn, error) {
	url := "ws" + strings.TrimPrefix(*apiURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	if err := conn.WriteJSON(map[string]int64{"customerId": id}); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func join(ctx context.Context, name string, size int) (*Customer, error) {
	body, _ := json.Marshal(map[string]any{"name": name, "partySize": size})
	var c Customer
	if err := call(ctx, http.MethodPost, "/api/customers", body, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func status(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	if err := call(ctx, http.MethodGet, fmt.Sprintf("/api/customers/%d", id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func checkIn(ctx context.Context, id int64) error {
	return call(ctx, http.MethodPut, fmt.Sprintf("/api/customers/%d/check-in", id), nil, nil)
}

func call(ctx context.Context, method, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, *apiURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Message)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func printStats(ctx context.Context, rdb *redis.Client) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fmt.Printf("[%s] Customers: %d | Pending departures: %d | Available seats: %s\n",
				time.Now().Format("15:04:05"),
				rdb.HLen(ctx, "waitlist:customers").Val(),
				rdb.ZCard(ctx, "waitlist:departures").Val(),
				rdb.Get(ctx, "waitlist:available_seats").Val(),
			)
		}
	}
}
