package main

import (
	"bufio"
	"chat-rooms/domain"
	"chat-rooms/infrastructure/ws"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=ws://localhost:8080/ws"`
	Username  string `env:"CHAT_USERNAME,required=true"`
	Room      string `env:"CHAT_ROOM,required=true"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
}

var ackID int64

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the websocket client lifecycle, configuration loading, and the
// interactive send/receive loops.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect and join.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	if err := send(conn, ws.EventJoin, domain.JoinRequest{
		Username: config.Username,
		Room:     config.Room,
	}); err != nil {
		return exitRuntime, err
	}

	color.Cyan.Printf(">>> Connected to %s as %q in room %q (Ctrl+C to quit)\n",
		config.ServerURL, config.Username, config.Room)
	color.Gray.Println("Type a message, or /loc <latitude> <longitude> to share a location")

	// 4. Reception loop in the background.
	done := make(chan error, 1)
	go func() { done <- receive(conn) }()

	// 5. Input loop: stdin lines become messages or location shares.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if err := handleInput(conn, line); err != nil {
				color.Red.Println(err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Stopping client...")
		return exitOK, nil
	case err := <-done:
		if ctx.Err() != nil {
			return exitOK, nil
		}
		return exitRuntime, err
	}
}

func handleInput(conn *websocket.Conn, line string) error {
	if lat, lon, ok := parseLocation(line); ok {
		return send(conn, ws.EventSendLocation, map[string]float64{
			"latitude": lat, "longitude": lon,
		})
	}
	return send(conn, ws.EventSendMessage, line)
}

// parseLocation understands "/loc <latitude> <longitude>".
func parseLocation(line string) (float64, float64, bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 || fields[0] != "/loc" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func send(conn *websocket.Conn, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(ws.Frame{
		Event: event,
		Data:  data,
		AckID: atomic.AddInt64(&ackID, 1),
	})
}

// receive renders every server frame until the connection drops.
func receive(conn *websocket.Conn) error {
	for {
		var frame ws.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("stream error: %w", err)
		}
		render(frame)
	}
}

func render(frame ws.Frame) {
	switch frame.Event {
	case domain.EventWelcome, domain.EventMessage:
		var msg domain.ChatMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			return
		}
		if msg.Username == domain.SystemSender {
			color.Yellow.Printf("[%s] %s\n", msg.CreatedAt.Local().Format(time.TimeOnly), msg.Text)
			return
		}
		color.Green.Printf("[%s] %s: %s\n",
			msg.CreatedAt.Local().Format(time.TimeOnly), msg.Username, msg.Text)

	case domain.EventLocation:
		var loc domain.LocationMessage
		if err := json.Unmarshal(frame.Data, &loc); err != nil {
			return
		}
		color.Green.Printf("[%s] %s shared a location: %s\n",
			loc.CreatedAt.Local().Format(time.TimeOnly), loc.Username, loc.URL)

	case domain.EventRoomData:
		var roomData domain.RoomData
		if err := json.Unmarshal(frame.Data, &roomData); err != nil {
			return
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Room", "User"})
		for _, u := range roomData.Users {
			table.Append([]string{roomData.Room, u.Username})
		}
		table.Render()

	case ws.EventAck:
		var ack ws.Ack
		if err := json.Unmarshal(frame.Data, &ack); err != nil {
			return
		}
		if !ack.OK {
			color.Red.Println(ack.Message)
		} else if ack.Message != "" {
			color.Gray.Println(ack.Message)
		}
	}
}
