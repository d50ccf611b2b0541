package main

import (
	"log"

	"github.com/gorcon/rcon"
)

// minecraftForwarder is nil unless RCON_ADDRESS is configured.
var minecraftForwarder *rconForwarder

type rconForwarder struct {
	address  string
	password string
}

// forwardToMinecraft delivers an allowed web message into the server
// chat. Fire and forget: failures are logged, never surfaced to the
// sender.
func forwardToMinecraft(text string) {
	if minecraftForwarder == nil {
		return
	}
	go func() {
		if err := minecraftForwarder.say(text); err != nil {
			log.Println("RCON forward failed:", err)
		}
	}()
}

func (f *rconForwarder) say(text string) error {
	conn, err := rcon.Dial(f.address, f.password, rcon.SetDialTimeout(bridgeCallTimeout))
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Execute("say [Web] " + text)
	return err
}
