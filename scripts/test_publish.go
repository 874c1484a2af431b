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
	"github.com/property-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Публикует LocationRefreshEvent и ждёт ответ воркера в stream:location:refreshed.
//
//	go run scripts/test_publish.go -property <uuid>
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	propertyID := flag.String("property", "", "property id to refresh")
	wait := flag.Duration("wait", 30*time.Second, "how long to wait for the refreshed event")
	flag.Parse()

	id, err := uuid.Parse(*propertyID)
	if err != nil {
		log.Fatalf("Invalid -property: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// ответы, опубликованные до нашего события, не интересны
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamLocationRefreshed, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	data, err := json.Marshal(domain.LocationRefreshEvent{
		PropertyID: id,
		Reason:     domain.RefreshReasonManual,
	})
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	msgID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamLocationRefresh,
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Published %s to %s (property %s)\n", msgID, domain.StreamLocationRefresh, id)
	fmt.Printf("Waiting for %s...\n", domain.StreamLocationRefreshed)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		streams, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamLocationRefreshed, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read stream: %v", err)
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID

				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}
				var event domain.LocationRefreshedEvent
				if err := json.Unmarshal([]byte(raw), &event); err != nil || event.PropertyID != id {
					continue
				}

				pretty, _ := json.MarshalIndent(event, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	log.Fatalf("Timeout waiting for refreshed event")
}
