package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// SlotCache guarda listas de horários agendáveis já calculadas. Slots nunca
// são persistidos de verdade: a entrada tem TTL curto e qualquer escrita de
// agendamento ou de agenda invalida tudo do barbeiro de uma vez, trocando a
// versão embutida na chave (sem SCAN).
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSlotCache(rdb *redis.Client, ttl time.Duration) *SlotCache {
	return &SlotCache{rdb: rdb, ttl: ttl}
}

func versionKey(barberID uint) string {
	return fmt.Sprintf("slots:ver:%d", barberID)
}

func (c *SlotCache) key(ctx context.Context, barberID uint, date string, durationMin int) string {
	ver, err := c.rdb.Get(ctx, versionKey(barberID)).Result()
	if err != nil {
		ver = "0"
	}
	return fmt.Sprintf("slots:%d:%s:%s:%d", barberID, ver, date, durationMin)
}

func (c *SlotCache) Get(ctx context.Context, barberID uint, date string, durationMin int) ([]string, bool) {
	raw, err := c.rdb.Get(ctx, c.key(ctx, barberID, date, durationMin)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(ctx context.Context, barberID uint, date string, durationMin int, slots []string) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.key(ctx, barberID, date, durationMin), raw, c.ttl).Err(); err != nil {
		log.Println("cache: set falhou:", err)
	}
}

// Invalidate descarta todas as listas do barbeiro (qualquer data/duração).
func (c *SlotCache) Invalidate(ctx context.Context, barberID uint) {
	if err := c.rdb.Incr(ctx, versionKey(barberID)).Err(); err != nil {
		log.Println("cache: invalidação falhou:", err)
	}
}
