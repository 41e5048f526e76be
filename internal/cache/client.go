package cache

import (
	"encoding/json"
	"net"
	"time"
)

// Client implements KV over a unix socket served by the cache daemon.
type Client struct {
	socketPath string
}

func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

func (c *Client) withConn(fn func(conn net.Conn) error) error {
	conn, err := net.DialTimeout("unix", c.socketPath, 500*time.Millisecond)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func (c *Client) roundTrip(req Request) (Response, error) {
	var resp Response
	err := c.withConn(func(conn net.Conn) error {
		if err := json.NewEncoder(conn).Encode(&req); err != nil {
			return err
		}
		return json.NewDecoder(conn).Decode(&resp)
	})
	return resp, err
}

func (c *Client) Get(key string) ([]byte, error) {
	resp, err := c.roundTrip(Request{Op: "get", Key: key})
	if err != nil {
		return nil, err
	}
	if !resp.OK {
		switch resp.Error {
		case ErrNotFound.Error():
			return nil, ErrNotFound
		case ErrExpired.Error():
			return nil, ErrExpired
		}
		return nil, errorsNew(resp.Error)
	}
	return append([]byte(nil), resp.Value...), nil
}

func (c *Client) Put(key string, value []byte, category string, ttl time.Duration) error {
	resp, err := c.roundTrip(Request{
		Op:        "put",
		Key:       key,
		Value:     value,
		Category:  category,
		TTLMillis: ttl.Milliseconds(),
	})
	if err != nil {
		return err
	}
	if !resp.OK {
		return errorsNew(resp.Error)
	}
	return nil
}

func (c *Client) Delete(key string) error {
	resp, err := c.roundTrip(Request{Op: "delete", Key: key})
	if err != nil {
		return err
	}
	if !resp.OK {
		return errorsNew(resp.Error)
	}
	return nil
}

func (c *Client) ClearCategory(category string) error {
	resp, err := c.roundTrip(Request{Op: "clearcat", Category: category})
	if err != nil {
		return err
	}
	if !resp.OK {
		return errorsNew(resp.Error)
	}
	return nil
}

func (c *Client) Stats() (Stats, error) {
	resp, err := c.roundTrip(Request{Op: "stats"})
	if err != nil {
		return Stats{}, err
	}
	if !resp.OK {
		return Stats{}, errorsNew(resp.Error)
	}
	if resp.Stats == nil {
		return Stats{}, nil
	}
	return *resp.Stats, nil
}

// Local helper to avoid importing fmt just for errors.
func errorsNew(msg string) error { return &simpleError{s: msg} }

type simpleError struct{ s string }

func (e *simpleError) Error() string { return e.s }
