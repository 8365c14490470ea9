// Command ws_client prints corral events from a running API and posts one
// update so there is something to see.
package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/corrals/ws"}
	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var e event
			if err := c.ReadJSON(&e); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %v", e.Type, e.Data)
		}
	}()

	time.Sleep(300 * time.Millisecond)
	body := []byte(`{"corralId":"A","count":27}`)
	resp, err := http.Post(base+"/v1/corrals", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()

	body = []byte(`{"corrals":{"A":{"x":0,"y":0},"B":{"x":10,"y":0},"J":{"x":10,"y":15}}}`)
	resp, err = http.Post(base+"/v1/optimize-route", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal(err)
	}
	_ = resp.Body.Close()

	select {
	case <-time.After(2 * time.Second):
	case <-done:
	}
}
