package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ======================================================
// AVAILABILITY CHANGE FEED
// ======================================================

type Kind string

const (
	// agenda semanal do barbeiro mudou
	KindWeeklyPattern Kind = "weekly_pattern"
	// conjunto de agendamentos do barbeiro mudou
	KindAppointments Kind = "appointments"
)

// Event avisa que a disponibilidade de um barbeiro mudou. Entrega
// at-least-once: o consumidor trata toda notificação como "recalcule
// agora", nunca como diff.
type Event struct {
	ID       string    `json:"id"`
	BarberID uint      `json:"barber_id"`
	Kind     Kind      `json:"kind"`
	At       time.Time `json:"at"`
}

// Broker publica e distribui eventos de mudança via canal Redis por
// barbeiro. Sem garantia de ordem entre barbeiros diferentes.
type Broker struct {
	rdb *redis.Client
}

func NewBroker(rdb *redis.Client) *Broker {
	return &Broker{rdb: rdb}
}

func channelFor(barberID uint) string {
	return fmt.Sprintf("availability:%d", barberID)
}

func (b *Broker) Publish(ctx context.Context, barberID uint, kind Kind) {
	ev := Event{
		ID:       uuid.NewString(),
		BarberID: barberID,
		Kind:     kind,
		At:       time.Now(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("feed: marshal do evento falhou:", err)
		return
	}

	// feed é best-effort: a escrita que o originou já foi commitada, então
	// falha de publicação não pode derrubar a request
	if err := b.rdb.Publish(ctx, channelFor(barberID), payload).Err(); err != nil {
		log.Println("feed: publish falhou:", err)
	}
}

// Subscribe registra onChange para os eventos de um barbeiro e devolve a
// função de cancelamento. O Event entregue de propósito não carrega a nova
// grade nem qualquer payload: toda notificação significa "recalcule agora",
// nunca um diff, e o consumidor rebusca a disponibilidade por conta própria.
// A assinatura também morre com o ctx, para não vazar quando o chamador
// desconecta abruptamente.
func (b *Broker) Subscribe(
	ctx context.Context,
	barberID uint,
	onChange func(Event),
) (func(), error) {

	ps := b.rdb.Subscribe(ctx, channelFor(barberID))

	// força o SUBSCRIBE antes de devolver, senão eventos publicados logo
	// em seguida se perdem
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			_ = ps.Close()
		})
	}

	go func() {
		defer unsubscribe()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					log.Println("feed: payload inválido, descartado:", err)
					continue
				}
				onChange(ev)
			}
		}
	}()

	return unsubscribe, nil
}
