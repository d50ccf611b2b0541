package main

import (
	"regexp"
	"strings"

	"mcportal/types"
)

const (
	KindWeb       = "web"
	KindDiscord   = "discord"
	KindMinecraft = "minecraft"
	KindGeneric   = "generic"
)

var (
	discordEnvelopeRe   = regexp.MustCompile(`(?s)^\[([^\]\n]+)\]:\s?(.*)$`)
	minecraftEnvelopeRe = regexp.MustCompile(`(?s)^<([^>\n]+)>\s?(.*)$`)
)

// NormalizedMessage is the classified form of a raw chat message:
// author kind, display name, text body, optional image URL.
type NormalizedMessage struct {
	Kind  string
	Name  string
	Body  string
	Image string
}

type matcherRule func(text, image string) (NormalizedMessage, bool)

// Normalizer classifies raw messages through an ordered rule set; the
// first matching rule wins. It is pure: no I/O, no mutation, and every
// input produces a result (unparseable text degrades to the web
// fallback).
type Normalizer struct {
	channelName string
	webBotName  string
	rules       []matcherRule
}

func NewNormalizer(channelName, webBotName string) *Normalizer {
	n := &Normalizer{
		channelName: channelName,
		webBotName:  webBotName,
	}
	n.rules = []matcherRule{
		n.matchImageOnly,
		n.matchDiscordEnvelope,
		n.matchMinecraftEnvelope,
	}
	return n
}

func (n *Normalizer) Normalize(raw types.ChatMessage) NormalizedMessage {
	text := n.stripChannelPrefix(strings.TrimSpace(raw.Text))

	for _, rule := range n.rules {
		if msg, ok := rule(text, raw.Image); ok {
			return msg
		}
	}
	return NormalizedMessage{Kind: KindWeb, Name: "web", Body: text, Image: raw.Image}
}

// stripChannelPrefix removes the "#<channel>" tag the bridge prepends
// to relayed text.
func (n *Normalizer) stripChannelPrefix(text string) string {
	if n.channelName == "" {
		return text
	}
	prefix := "#" + n.channelName
	if !strings.HasPrefix(text, prefix) {
		return text
	}
	return strings.TrimLeft(strings.TrimPrefix(text, prefix), ": ")
}

func (n *Normalizer) matchImageOnly(text, image string) (NormalizedMessage, bool) {
	if text != "" || image == "" {
		return NormalizedMessage{}, false
	}
	return NormalizedMessage{Kind: KindWeb, Name: "web", Image: image}, true
}

func (n *Normalizer) matchDiscordEnvelope(text, image string) (NormalizedMessage, bool) {
	m := discordEnvelopeRe.FindStringSubmatch(text)
	if m == nil {
		return NormalizedMessage{}, false
	}
	name, body := m[1], m[2]
	if name == n.webBotName {
		return NormalizedMessage{Kind: KindWeb, Name: "web", Body: body, Image: image}, true
	}
	return NormalizedMessage{Kind: KindDiscord, Name: name, Body: body, Image: image}, true
}

func (n *Normalizer) matchMinecraftEnvelope(text, image string) (NormalizedMessage, bool) {
	m := minecraftEnvelopeRe.FindStringSubmatch(text)
	if m == nil {
		return NormalizedMessage{}, false
	}
	return NormalizedMessage{Kind: KindMinecraft, Name: m[1], Body: m[2], Image: image}, true
}
