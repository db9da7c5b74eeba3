// Package main provides a load and liveness probe for the comment
// broadcast websocket.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
)

// Metrics tracks the probe results
type Metrics struct {
	ConnectionsAttempted int64
	ConnectionsSuccess   int64
	ConnectionsFailed    int64
	EventsReceived       int64
	CommentEvents        int64
	ListEvents           int64
	Errors               int64
}

var metrics Metrics

func main() {
	host := flag.String("host", "localhost:8460", "API server host")
	clients := flag.Int("clients", 50, "Number of concurrent subscribers")
	duration := flag.Duration("duration", 30*time.Second, "Probe duration")
	flag.Parse()

	log.Printf("Starting comment broadcast probe")
	log.Printf("Target: %s", *host)
	log.Printf("Clients: %d", *clients)
	log.Printf("Duration: %v", *duration)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup
	stopChan := make(chan struct{})

	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go runSubscriber(*host, i, stopChan, &wg)
		time.Sleep(20 * time.Millisecond) // stagger the dials
	}

	// Give connections a moment to register, then compare against the
	// server's own count.
	time.Sleep(time.Second)
	if n, err := serverConnectionCount(*host); err == nil {
		log.Printf("Server reports %d live connections", n)
	}

	select {
	case <-time.After(*duration):
		log.Println("Probe duration reached")
	case <-interrupt:
		log.Println("Interrupted by user")
	}

	close(stopChan)
	log.Println("Waiting for subscribers to disconnect...")
	wg.Wait()

	printMetrics()
}

func runSubscriber(host string, id int, stopChan chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws/comments"}
	atomic.AddInt64(&metrics.ConnectionsAttempted, 1)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		atomic.AddInt64(&metrics.ConnectionsFailed, 1)
		log.Printf("client %d: dial failed: %v", id, err)
		return
	}
	atomic.AddInt64(&metrics.ConnectionsSuccess, 1)
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&metrics.EventsReceived, 1)

			var event struct {
				Type string `json:"type"`
			}
			if jerr := json.Unmarshal(message, &event); jerr != nil {
				atomic.AddInt64(&metrics.Errors, 1)
				continue
			}
			switch event.Type {
			case "comment_update":
				atomic.AddInt64(&metrics.CommentEvents, 1)
			case "comments_list":
				atomic.AddInt64(&metrics.ListEvents, 1)
			}
		}
	}()

	select {
	case <-stopChan:
		deadline := time.Now().Add(time.Second)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	case <-done:
	}
}

func serverConnectionCount(host string) (int, error) {
	resp, err := http.Get(fmt.Sprintf("http://%s/ws/connections", host))
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result struct {
		Connections int `json:"connections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	return result.Connections, nil
}

func printMetrics() {
	log.Println("=== Probe Results ===")
	log.Printf("Connections attempted: %d", atomic.LoadInt64(&metrics.ConnectionsAttempted))
	log.Printf("Connections succeeded: %d", atomic.LoadInt64(&metrics.ConnectionsSuccess))
	log.Printf("Connections failed:    %d", atomic.LoadInt64(&metrics.ConnectionsFailed))
	log.Printf("Events received:       %d", atomic.LoadInt64(&metrics.EventsReceived))
	log.Printf("  comment_update:      %d", atomic.LoadInt64(&metrics.CommentEvents))
	log.Printf("  comments_list:       %d", atomic.LoadInt64(&metrics.ListEvents))
	log.Printf("Errors:                %d", atomic.LoadInt64(&metrics.Errors))
}
