package stats

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("disabled client drops metrics", func(t *testing.T) {
		c, err := InitializeClient(Config{Address: "127.0.0.1:1"})
		require.NoError(t, err)

		c.Incr("pluely.test", nil, 1)
		c.Timing("pluely.test", time.Second, nil, 1)
		assert.NoError(t, c.Close())
	})

	t.Run("sends metrics with default tags", func(t *testing.T) {
		conn, err := net.ListenPacket("udp", "127.0.0.1:0")
		require.NoError(t, err)
		defer conn.Close()

		c, err := InitializeClient(Config{
			Enabled: true,
			Address: conn.LocalAddr().String(),
			Service: "pluely-gateway",
			Version: "1.2.3",
		})
		require.NoError(t, err)

		c.Incr("pluely.gateway.chat_stream.requests", []string{"tier:primary"}, 1)
		require.NoError(t, c.Close())

		buf := make([]byte, 1024)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, _, err := conn.ReadFrom(buf)
		require.NoError(t, err)

		packet := string(buf[:n])
		assert.True(t, strings.HasPrefix(packet, "pluely.gateway.chat_stream.requests:1|c"))
		assert.Contains(t, packet, "service:pluely-gateway")
		assert.Contains(t, packet, "version:1.2.3")
		assert.Contains(t, packet, "tier:primary")
	})
}
