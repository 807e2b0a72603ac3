package server

import "time"

// ProtocolVersion gates client/server wire compatibility.
const ProtocolVersion = 1

const (
	// writeWait bounds how long a snapshot write may block one socket.
	writeWait = 10 * time.Second
)
