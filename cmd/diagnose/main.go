package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/rpc"
)

func main() {
	cfg := config.Get()
	fmt.Println("=== STARTING COMPONENT DIAGNOSTICS ===")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok := true
	fmt.Printf("\n[1] Testing Web Adapter (%s)...\n", cfg.WebAdapter.FullURL())
	ok = checkWeb(ctx, probeURL(cfg.WebAdapter)) && ok

	fmt.Printf("\n[2] Testing Datamanager (%s)...\n", cfg.Datamanager.Address())
	ok = checkDatamanager(ctx, dialAddr(cfg.Datamanager)) && ok

	fmt.Println("\n=== DIAGNOSTICS COMPLETE ===")
	if !ok {
		os.Exit(1)
	}
}

// probeURL swaps a wildcard listen host for localhost.
func probeURL(c config.ComponentConfig) string {
	if c.Host == "0.0.0.0" || c.Host == "" {
		c.Host = "localhost"
	}
	return c.FullURL()
}

func dialAddr(c config.ComponentConfig) string {
	if c.Host == "0.0.0.0" || c.Host == "" {
		c.Host = "localhost"
	}
	return c.Address()
}

func checkWeb(ctx context.Context, base string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/healthz", nil)
	if err != nil {
		fmt.Printf("FAIL. %v\n", err)
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("FAIL. Web Adapter unreachable: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	var health struct {
		OK       bool `json:"ok"`
		Books    int  `json:"books"`
		Sessions int  `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil || !health.OK {
		fmt.Printf("FAIL. Status: %d\n", resp.StatusCode)
		return false
	}
	fmt.Printf("PASS. Books: %d, Sessions: %d\n", health.Books, health.Sessions)
	return true
}

func checkDatamanager(ctx context.Context, addr string) bool {
	c, err := rpc.Dial(addr)
	if err != nil {
		fmt.Printf("FAIL. Failed to connect: %v\n", err)
		return false
	}
	defer c.Close()

	st, err := c.Health(ctx)
	if err != nil {
		fmt.Printf("FAIL. Health check failed: %v\n", err)
		return false
	}
	res, err := c.Search(ctx, rpc.SearchRequest{Size: 1})
	if err != nil {
		fmt.Printf("FAIL. Search failed: %v\n", err)
		return false
	}
	fmt.Printf("PASS. Health: %s, Books: %d\n", st, res.Total)
	return true
}
