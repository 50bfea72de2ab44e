package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	mqttv2 "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/nergy-se/dashboard/pkg/state"
	"github.com/sirupsen/logrus"
)

// Start runs an embedded broker until ctx is done. Without an address only the inline client is available.
func Start(ctx context.Context, wg *sync.WaitGroup, address string) (*mqttv2.Server, error) {
	server := mqttv2.New(&mqttv2.Options{
		InlineClient: true,
	})

	// Allow all connections.
	_ = server.AddHook(new(auth.AllowHook), nil)

	if address != "" {
		tcp := listeners.NewTCP(listeners.Config{ID: "t1", Address: address})
		err := server.AddListener(tcp)
		if err != nil {
			return server, err
		}
	}

	err := server.Serve()
	if err != nil {
		return server, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		server.Close()
	}()
	return server, nil
}

// Publisher publishes dashboard snapshots to <topic>/<session id>.
type Publisher struct {
	server *mqttv2.Server
	topic  string
}

func NewPublisher(server *mqttv2.Server, topic string) *Publisher {
	return &Publisher{
		server: server,
		topic:  topic,
	}
}

func (p *Publisher) Topic(id string) string {
	return fmt.Sprintf("%s/%s", p.topic, id)
}

func (p *Publisher) Notify(id string, s state.State) error {
	b, err := json.Marshal(NewMessage(id, s))
	if err != nil {
		return err
	}
	logrus.Debugf("mqtt: publishing %d bytes to %s", len(b), p.Topic(id))
	return p.server.Publish(p.Topic(id), b, true, 0)
}
