package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"delivery-eta-api/config"
	"delivery-eta-api/features"
	"delivery-eta-api/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// LoadBoard keeps the latest operational load per market, fed from MQTT.
// Requests that omit load gauges are completed from it.
type LoadBoard struct {
	mu        sync.RWMutex
	snapshots map[int]models.LoadSnapshot

	cache  *CacheService
	ttl    time.Duration
	now    func() time.Time
	client mqtt.Client
}

func NewLoadBoard(cache *CacheService, ttl time.Duration) *LoadBoard {
	return &LoadBoard{
		snapshots: make(map[int]models.LoadSnapshot),
		cache:     cache,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Connect subscribes to load snapshots on the configured broker. The client
// keeps reconnecting in the background.
func (b *LoadBoard) Connect(ctx context.Context, cfg config.MQTTConfig) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID + "-" + time.Now().Format("20060102150405"))
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetDefaultPublishHandler(func(client mqtt.Client, message mqtt.Message) {
		if err := b.HandlePayload(ctx, message.Payload()); err != nil {
			log.Printf("load snapshot rejected topic=%s: %v", message.Topic(), err)
		}
	})
	opts.OnConnect = func(client mqtt.Client) {
		token := client.Subscribe(cfg.Topic, 0, nil)
		token.Wait()
		if token.Error() != nil {
			log.Printf("mqtt subscribe error: %v", token.Error())
			return
		}
		log.Printf("load board subscribed to topic=%s", cfg.Topic)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.Printf("mqtt connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("mqtt connect %s: %w", cfg.Broker, token.Error())
	}
	b.client = client
	return nil
}

func (b *LoadBoard) Close() {
	if b.client != nil {
		b.client.Disconnect(250)
	}
}

// HandlePayload decodes and records one JSON snapshot.
func (b *LoadBoard) HandlePayload(ctx context.Context, payload []byte) error {
	loadSnapshotsReceived.Inc()

	var snap models.LoadSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		loadSnapshotsFailed.Inc()
		return fmt.Errorf("invalid payload: %w", err)
	}
	if err := b.Record(ctx, snap); err != nil {
		loadSnapshotsFailed.Inc()
		return err
	}
	return nil
}

// Record stores snap if it is valid and not older than what is already held.
func (b *LoadBoard) Record(ctx context.Context, snap models.LoadSnapshot) error {
	if snap.MarketID < 1 {
		return &features.NumericDomainError{Field: features.FieldMarketID, Value: float64(snap.MarketID)}
	}
	gauges := []struct {
		name  string
		value int
	}{
		{features.FieldTotalOnshiftPartners, snap.TotalOnshiftPartners},
		{features.FieldTotalBusyPartners, snap.TotalBusyPartners},
		{features.FieldTotalOutstandingOrders, snap.TotalOutstandingOrders},
	}
	for _, g := range gauges {
		if g.value < 0 {
			return &features.NumericDomainError{Field: g.name, Value: float64(g.value)}
		}
	}
	if snap.TS.IsZero() {
		snap.TS = b.now().UTC()
	}

	b.mu.Lock()
	if prev, ok := b.snapshots[snap.MarketID]; ok && prev.TS.After(snap.TS) {
		b.mu.Unlock()
		return nil
	}
	b.snapshots[snap.MarketID] = snap
	b.mu.Unlock()

	if err := b.cache.Set(ctx, loadKey(snap.MarketID), snap, b.ttl); err != nil {
		log.Printf("load snapshot cache set failed market=%d: %v", snap.MarketID, err)
	}
	return nil
}

// Latest returns the freshest snapshot for a market, looking in Redis when
// this replica has not seen one. Snapshots older than the TTL are ignored.
func (b *LoadBoard) Latest(ctx context.Context, marketID int) (models.LoadSnapshot, bool) {
	b.mu.RLock()
	snap, ok := b.snapshots[marketID]
	b.mu.RUnlock()

	if !ok || b.stale(snap) {
		var remote models.LoadSnapshot
		if err := b.cache.Get(ctx, loadKey(marketID), &remote); err != nil {
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("load snapshot cache get failed market=%d: %v", marketID, err)
			}
			return models.LoadSnapshot{}, false
		}
		snap, ok = remote, true
	}
	if !ok || b.stale(snap) {
		return models.LoadSnapshot{}, false
	}
	return snap, true
}

// Fill completes absent load gauges on in from the market's latest snapshot.
// Gauges the caller supplied are left alone. It reports whether anything was
// filled.
func (b *LoadBoard) Fill(ctx context.Context, in *features.OrderInput) bool {
	if in.MarketID == nil {
		return false
	}
	if in.TotalOnshiftPartners != nil && in.TotalBusyPartners != nil && in.TotalOutstandingOrders != nil {
		return false
	}
	snap, ok := b.Latest(ctx, *in.MarketID)
	if !ok {
		return false
	}
	if in.TotalOnshiftPartners == nil {
		in.TotalOnshiftPartners = intPtr(snap.TotalOnshiftPartners)
	}
	if in.TotalBusyPartners == nil {
		in.TotalBusyPartners = intPtr(snap.TotalBusyPartners)
	}
	if in.TotalOutstandingOrders == nil {
		in.TotalOutstandingOrders = intPtr(snap.TotalOutstandingOrders)
	}
	return true
}

func (b *LoadBoard) stale(snap models.LoadSnapshot) bool {
	return b.ttl > 0 && b.now().Sub(snap.TS) > b.ttl
}

func loadKey(marketID int) string {
	return loadKeyPrefix + strconv.Itoa(marketID)
}

func intPtr(v int) *int { return &v }
