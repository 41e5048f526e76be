package cache

import (
	"encoding/json"
	"net"
	"time"
)

// ServeConn answers protocol requests on one connection until the peer
// disconnects. The daemon runs one goroutine per accepted connection.
func ServeConn(conn net.Conn, kv KV) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)
	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			return
		}
		switch req.Op {
		case "get":
			v, err := kv.Get(req.Key)
			if err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true, Value: v})
		case "put":
			ttl := time.Duration(req.TTLMillis) * time.Millisecond
			if err := kv.Put(req.Key, req.Value, req.Category, ttl); err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true})
		case "delete":
			if err := kv.Delete(req.Key); err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true})
		case "clearcat":
			if err := kv.ClearCategory(req.Category); err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true})
		case "stats":
			st, err := kv.Stats()
			if err != nil {
				_ = enc.Encode(Response{OK: false, Error: err.Error()})
				continue
			}
			_ = enc.Encode(Response{OK: true, Stats: &st})
		default:
			_ = enc.Encode(Response{OK: false, Error: "unknown op"})
		}
	}
}
