package main

import (
	"flag"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func main() {
	addr := flag.String("addr", "ws://localhost:8888/api/v1/dailyreward/chest/ws", "chest stream url")
	initData := flag.String("init-data", os.Getenv("TELEGRAM_INIT_DATA"), "telegram mini app init data")
	flag.Parse()

	if _, err := url.Parse(*addr); err != nil {
		log.Fatal("invalid url:", err)
	}

	header := http.Header{}
	header.Add("Authorization", "Telegram "+*initData)

	conn, _, err := websocket.DefaultDialer.Dial(*addr, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	messageQueue := make(chan Message)

	go func() {
		defer close(messageQueue)
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				log.Println("read error:", err)
				return
			}

			var message Message
			if err := json.Unmarshal(p, &message); err != nil {
				log.Println("json unmarshal error:", err)
				continue
			}
			messageQueue <- message
		}
	}()

	for {
		select {
		case message, ok := <-messageQueue:
			if !ok {
				return
			}
			pretty, err := json.MarshalIndent(message.Data, "", "  ")
			if err != nil {
				log.Println("json marshal error:", err)
				continue
			}
			log.Printf("Received %s:\n%s\n", message.Type, pretty)

		case <-interrupt:
			err := conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("write close:", err)
			}
			return
		}
	}
}
