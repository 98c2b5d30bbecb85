package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Messenger adapts a Discord session to the moderation engine's messaging
// boundary. Prompts and replies all live in the moderation channel, so a
// message id alone is enough to fetch the original prompt back.
type Messenger struct {
	session   *discordgo.Session
	channelID string
}

func (m *Messenger) Send(ctx context.Context, recipientID, text string) error {
	_, err := m.session.ChannelMessageSend(recipientID, text)
	return err
}

func (m *Messenger) FetchText(ctx context.Context, messageID string) (string, error) {
	msg, err := m.session.ChannelMessage(m.channelID, messageID)
	if err != nil {
		return "", fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return msg.Content, nil
}
