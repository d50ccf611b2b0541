// Package mcstatus queries a Minecraft Java server over the status
// protocol with a bounded timeout.
package mcstatus

import (
	"context"
	"time"

	"github.com/mcstatus-io/mcutil/v4/status"
)

const queryTimeout = 5 * time.Second

type Player struct {
	UUID string
	Name string
}

type Status struct {
	Online  int64
	Max     int64
	Players []Player
}

// Query pings the server and returns the online count plus the player
// sample the server chooses to advertise. The call never takes longer
// than queryTimeout.
func Query(ctx context.Context, host string, port uint16) (*Status, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	resp, err := status.Modern(ctx, host, port)
	if err != nil {
		return nil, err
	}

	st := &Status{}
	if resp.Players.Online != nil {
		st.Online = *resp.Players.Online
	}
	if resp.Players.Max != nil {
		st.Max = *resp.Players.Max
	}
	for _, p := range resp.Players.Sample {
		st.Players = append(st.Players, Player{UUID: p.ID, Name: p.Name.Clean})
	}
	return st, nil
}
