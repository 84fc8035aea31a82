// UDP transmission for encoded sentences.
package transport

import (
	"fmt"
	"net"
	"sync"
)

// Transmitter sends one framed sentence to a destination. Sends are
// fire-and-forget: a returned error means the destination could not be
// reached at all, not that the datagram was lost.
type Transmitter interface {
	Send(payload []byte, address string, port int) (int, error)
}

// UDP is a Transmitter over UDP datagrams. Connections are dialed once per
// destination and reused for the process lifetime.
type UDP struct {
	mu    sync.Mutex
	conns map[string]*net.UDPConn
}

// NewUDP returns an empty UDP transmitter.
func NewUDP() *UDP {
	return &UDP{conns: make(map[string]*net.UDPConn)}
}

func (u *UDP) conn(address string, port int) (*net.UDPConn, error) {
	key := fmt.Sprintf("%s:%d", address, port)
	u.mu.Lock()
	defer u.mu.Unlock()
	if c, ok := u.conns[key]; ok {
		return c, nil
	}
	addr, err := net.ResolveUDPAddr("udp", key)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", key, err)
	}
	c, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", key, err)
	}
	u.conns[key] = c
	return c, nil
}

// Send writes one datagram to the destination.
func (u *UDP) Send(payload []byte, address string, port int) (int, error) {
	c, err := u.conn(address, port)
	if err != nil {
		return 0, err
	}
	return c.Write(payload)
}

// Close releases all cached connections.
func (u *UDP) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	var err error
	for key, c := range u.conns {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
		delete(u.conns, key)
	}
	return err
}
