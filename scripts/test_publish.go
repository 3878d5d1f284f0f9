//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type streamPOI struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type zoomSelectEvent struct {
	RequestID   uuid.UUID   `json:"request_id"`
	Reference   coordinate  `json:"reference"`
	RadiusKm    float64     `json:"radius_km"`
	TargetCount int         `json:"target_count"`
	POIs        []streamPOI `json:"pois,omitempty"`
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	fromDB := flag.Bool("db", false, "Select from stored POIs instead of sending the landmark set")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Тестовое событие: Марсово поле, 7 км, больше одной достопримечательности
	event := zoomSelectEvent{
		RequestID:   uuid.New(),
		Reference:   coordinate{Lat: 48.858023, Lon: 2.294855},
		RadiusKm:    7,
		TargetCount: 1,
	}
	if !*fromDB {
		event.POIs = []streamPOI{
			{ID: "american-library", Lat: 48.858814, Lon: 2.299018},
			{ID: "champ-de-mars", Lat: 48.855878, Lon: 2.298074},
			{ID: "trocadero", Lat: 48.861807, Lon: 2.288933},
			{ID: "champs-elysees", Lat: 48.866183, Lon: 2.307816},
			{ID: "unesco", Lat: 48.845457, Lon: 2.304876},
			{ID: "conseil-regional", Lat: 48.851924, Lon: 2.317472},
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Публикация в стрим
	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:zoom:select",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: stream:zoom:select\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   POIs in event: %d\n", len(event.POIs))

	fmt.Printf("\nWaiting for response in stream:zoom:done...\n")

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for response")
			return
		case <-ticker.C:
			results, err := client.XRead(ctx, &redis.XReadArgs{
				Streams: []string{"stream:zoom:done", "0"},
				Count:   100,
				Block:   -1,
			}).Result()
			if err != nil && err != redis.Nil {
				continue
			}

			for _, stream := range results {
				for _, msg := range stream.Messages {
					dataStr, ok := msg.Values["data"].(string)
					if !ok {
						continue
					}

					var response map[string]interface{}
					if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
						continue
					}

					if id, ok := response["request_id"].(string); ok && id == event.RequestID.String() {
						fmt.Printf("\nResponse received\n")
						prettyJSON, _ := json.MarshalIndent(response, "", "  ")
						fmt.Printf("%s\n", prettyJSON)
						return
					}
				}
			}
		}
	}
}
