package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/rpc"
)

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "FAIL: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	cfg := config.Get()
	addr := flag.String("addr", "localhost:"+fmt.Sprint(cfg.Datamanager.Port), "datamanager host:port")
	query := flag.String("query", "", `search query, e.g. title:dune genre:g1`)
	id := flag.String("id", "", "fetch a single book instead of searching")
	from := flag.Int("from", 0, "offset into the match set")
	size := flag.Int("size", 0, "window size (0 means the catalog page size)")
	timeout := flag.Duration("timeout", 5*time.Second, "timeout (e.g. 3s, 10s)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c, err := rpc.Dial(*addr)
	if err != nil {
		fail("dial %s: %v", *addr, err)
	}
	defer c.Close()

	if *id != "" {
		b, err := c.GetBook(ctx, *id)
		if err != nil {
			fail("Catalog/GetBook: %v", err)
		}
		fmt.Printf("[%s] %s\n%s\nGenres: %s\n", b.ID, b.Title, b.Subtitle, strings.Join(b.Genres, ", "))
		return
	}

	res, err := c.Search(ctx, rpc.SearchRequest{Query: *query, From: *from, Size: *size})
	if err != nil {
		fail("Catalog/Search: %v", err)
	}
	fmt.Printf("Found %d books (showing %d-%d):\n", res.Total, res.From, res.NextFrom)
	fmt.Println("----------------------------------------")
	for _, b := range res.Books {
		fmt.Printf("[%s] %s, %s\n", b.ID, b.Title, b.Author)
	}
	if res.HasMore {
		fmt.Printf("\nmore: -from %d\n", res.NextFrom)
	}
}
