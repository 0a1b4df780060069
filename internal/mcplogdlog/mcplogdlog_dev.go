//go:build dev

package mcplogdlog

import (
	"encoding/json"
	"fmt"
	"net"
)

const defaultSocket = "/tmp/mcplogd.sock"

const enabled = true

func send(e entry) {
	conn, err := net.Dial("unix", defaultSocket)
	if err != nil {
		return
	}
	defer conn.Close()

	data, _ := json.Marshal(e)
	fmt.Fprintf(conn, "%s\n", data)
}
