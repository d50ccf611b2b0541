// Package bridge connects the site chat to a Discord text channel. One
// Connector owns one live session; it is constructed in main and passed
// to whatever needs it rather than living here as a singleton.
package bridge

import (
	"context"
	"fmt"
	"io"
	"log"
	"regexp"

	"mcportal/types"

	"github.com/bwmarrin/discordgo"
)

// Server-side chat lines relayed into Discord look like "<Steve> hi".
var minecraftChatRe = regexp.MustCompile(`^<[^>\n]+>`)

type Connector struct {
	session    *discordgo.Session
	channelID  string
	webBotName string
}

func New(token, channelID, webBotName string) (*Connector, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	return &Connector{
		session:    session,
		channelID:  channelID,
		webBotName: webBotName,
	}, nil
}

// Start opens the session and feeds bridged-channel messages into
// inbound until ctx is cancelled. Messages authored by the connector's
// own bot user are skipped so relayed sends do not loop back, and bot
// chatter that is neither the web relay identity nor a Minecraft chat
// line is dropped.
func (c *Connector) Start(ctx context.Context, inbound chan<- types.ChatMessage) error {
	c.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.ChannelID != c.channelID {
			return
		}
		if s.State.User != nil && m.Author.ID == s.State.User.ID {
			return
		}
		if !keepBridgeMessage(m.Author.Bot, m.Author.Username, m.Content, c.webBotName) {
			return
		}

		msg := toChatMessage(m.Author.Username, m.Author.Bot, m.Content, firstAttachmentURL(m.Attachments))
		select {
		case inbound <- msg:
		case <-ctx.Done():
		}
	})

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	log.Println("Connected to Discord bridge channel")

	<-ctx.Done()

	log.Println("Disconnecting from Discord...")
	c.session.Close()
	return ctx.Err()
}

func (c *Connector) SendMessage(ctx context.Context, text string) error {
	_, err := c.session.ChannelMessageSend(c.channelID, text, discordgo.WithContext(ctx))
	return err
}

// SendFile uploads a binary as a channel attachment with caption as the
// message body and returns the platform-hosted URL for the attachment.
func (c *Connector) SendFile(ctx context.Context, name string, file io.Reader, caption string) (string, error) {
	msg, err := c.session.ChannelFileSendWithMessage(c.channelID, caption, name, file, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	if len(msg.Attachments) == 0 {
		return "", fmt.Errorf("no hosted attachment returned for %s", name)
	}
	return msg.Attachments[0].URL, nil
}

// FetchRecent returns up to limit retained messages from the bridged
// channel, oldest first, with unrelated bot chatter filtered out.
func (c *Connector) FetchRecent(ctx context.Context, limit int) ([]types.ChatMessage, error) {
	raw, err := c.session.ChannelMessages(c.channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	// ChannelMessages returns newest first.
	messages := make([]types.ChatMessage, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		m := raw[i]
		if m.Author == nil {
			continue
		}
		if !keepBridgeMessage(m.Author.Bot, m.Author.Username, m.Content, c.webBotName) {
			continue
		}
		messages = append(messages, toChatMessage(m.Author.Username, m.Author.Bot, m.Content, firstAttachmentURL(m.Attachments)))
	}
	return messages, nil
}

// keepBridgeMessage keeps human messages, the web relay's own past
// messages, and Minecraft chat lines relayed by the server-side bot.
// Everything else on the shared channel is unrelated bot chatter.
func keepBridgeMessage(authorBot bool, authorName, content, webBotName string) bool {
	if !authorBot {
		return true
	}
	if webBotName != "" && authorName == webBotName {
		return true
	}
	return minecraftChatRe.MatchString(content)
}

// toChatMessage produces the raw text handed to the normalizer.
// Minecraft chat lines relayed by a bot pass through unwrapped so the
// in-game author survives classification; everything else is wrapped in
// the display-name envelope.
func toChatMessage(author string, bot bool, content, image string) types.ChatMessage {
	if bot && minecraftChatRe.MatchString(content) {
		return types.ChatMessage{Text: content, Image: image}
	}
	return types.ChatMessage{Text: "[" + author + "]: " + content, Image: image}
}

func firstAttachmentURL(attachments []*discordgo.MessageAttachment) string {
	if len(attachments) == 0 {
		return ""
	}
	return attachments[0].URL
}
