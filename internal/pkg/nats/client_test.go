package nats

import (
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestServer(t *testing.T) string {
	t.Helper()
	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	srv := natsserver.RunServer(&opts)
	t.Cleanup(srv.Shutdown)
	return srv.ClientURL()
}

func TestNewClient_InvalidAddress(t *testing.T) {
	client, err := NewClient("nats://127.0.0.1:1", "test")
	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to connect to NATS server")
}

func TestClient_PublishJSON(t *testing.T) {
	client, err := NewClient(runTestServer(t), "test")
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.IsConnected())

	msgCh := make(chan *nats.Msg, 1)
	sub, err := client.Subscribe("payment.test", func(msg *nats.Msg) {
		msgCh <- msg
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, client.PublishJSON("payment.test", map[string]string{"order_id": "RMN-1"}))

	select {
	case msg := <-msgCh:
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &body))
		assert.Equal(t, "RMN-1", body["order_id"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestClient_PublishJSON_MarshalError(t *testing.T) {
	client, err := NewClient(runTestServer(t), "test")
	require.NoError(t, err)
	defer client.Close()

	err = client.PublishJSON("payment.test", make(chan int))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal message")
}
