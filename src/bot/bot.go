package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/page-confessions/confession-relay/src/logging"
	"github.com/page-confessions/confession-relay/src/moderation"
)

const eventTimeout = 90 * time.Second

type Config struct {
	Token        string
	GuildID      string
	ModChannelID string
	ModRoleID    string
}

// Bot is the moderator-facing side of the relay: it listens in the
// moderation channel for "check", "check unread" and yes/no replies to
// prompt messages, and hands them to the moderation engine.
type Bot struct {
	session      *discordgo.Session
	engine       *moderation.Engine
	guildID      string
	modChannelID string
	modRoleID    string
}

func New(cfg Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}

	b := &Bot{
		session:      dg,
		guildID:      cfg.GuildID,
		modChannelID: cfg.ModChannelID,
		modRoleID:    cfg.ModRoleID,
	}

	dg.AddHandler(b.handleReady)
	dg.AddHandler(b.handleMessageCreate)
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return b, nil
}

// SetEngine wires the moderation engine in. The engine needs this bot's
// session for its messenger, so construction happens in two steps.
func (b *Bot) SetEngine(engine *moderation.Engine) {
	b.engine = engine
}

func (b *Bot) Start() error {
	if b.engine == nil {
		return errors.New("bot: engine not set")
	}
	return b.session.Open()
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

// Messenger returns the engine-facing adapter backed by this session.
func (b *Bot) Messenger() *Messenger {
	return &Messenger{session: b.session, channelID: b.modChannelID}
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("bot: logged in as %s", event.User.Username)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}
	if m.ChannelID != b.modChannelID {
		return
	}
	if !b.isModerator(s, m.Author.ID) {
		return
	}

	// One bound per inbound event; each adapter call underneath shares it.
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	switch moderation.NormalizeCommand(m.Content) {
	case "check":
		if err := b.engine.CheckLatest(ctx, m.ChannelID); err != nil {
			log.Printf("bot: check: %v", err)
			s.ChannelMessageSend(m.ChannelID, "Failed to fetch submissions. Check the logs.")
		}
	case "check unread":
		if err := b.engine.CheckUnread(ctx, m.ChannelID); err != nil {
			log.Printf("bot: check unread: %v", err)
			s.ChannelMessageSend(m.ChannelID, "Failed to fetch submissions. Check the logs.")
		}
	case "yes":
		b.decide(ctx, s, m, true)
	case "no":
		b.decide(ctx, s, m, false)
	}
}

func (b *Bot) decide(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, approve bool) {
	replyID := ""
	if m.MessageReference != nil {
		replyID = m.MessageReference.MessageID
	}

	result, err := b.engine.HandleDecision(ctx, replyID, m.Author.ID, approve)
	if err != nil {
		switch {
		case errors.Is(err, moderation.ErrNotAReply):
			// A bare yes/no in the channel is just conversation.
		case errors.Is(err, moderation.ErrMalformedPrompt):
			s.ChannelMessageSend(m.ChannelID, "That message isn't a submission prompt.")
		case logging.IsRateLimit(err):
			s.ChannelMessageSend(m.ChannelID, "Rate limited upstream, try again in a minute.")
		default:
			log.Printf("bot: decision: %v", err)
			s.ChannelMessageSend(m.ChannelID, "Failed to process that decision. Check the logs.")
		}
		return
	}

	if result.Approved {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Row %d approved, scheduled as #%d for %s.",
			result.RowIndex, result.SequenceID, result.PublishAt.Format("Mon Jan 2 15:04")))
	} else {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Row %d rejected.", result.RowIndex))
	}
}

func (b *Bot) isModerator(s *discordgo.Session, userID string) bool {
	if b.modRoleID == "" {
		return true
	}
	member, err := s.GuildMember(b.guildID, userID)
	if err != nil {
		log.Printf("bot: get guild member %s: %v", userID, err)
		return false
	}
	for _, roleID := range member.Roles {
		if roleID == b.modRoleID {
			return true
		}
	}
	return false
}
