// Package slackbridge captures plain Slack messages as notes: a message in
// a channel the bot is in goes through the same analysis pipeline as a note
// entered in the app, and the bot replies with the derived tags.
package slackbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/ai"
	"github.com/D-E-STUDIOS/mindweave-agenda/internal/notes"
)

type Bridge struct {
	api           *slack.Client
	botID         string
	signingSecret string
	ownerID       string
	coordinator   *notes.Coordinator
}

// New authenticates the bot and returns a bridge that files captured
// messages under ownerID.
func New(token, signingSecret, ownerID string, coordinator *notes.Coordinator) (*Bridge, error) {
	api := slack.New(token)

	authTest, err := api.AuthTest()
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Slack: %w", err)
	}

	return &Bridge{
		api:           api,
		botID:         authTest.UserID,
		signingSecret: signingSecret,
		ownerID:       ownerID,
		coordinator:   coordinator,
	}, nil
}

// Register wires the Slack events endpoint onto mux.
func (b *Bridge) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /slack/events", b.handleEvents)
	log.Println("💬 Slack capture bridge registered at /slack/events")
}

func (b *Bridge) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Error reading body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Verify the request signature
	sv, err := slack.NewSecretsVerifier(r.Header, b.signingSecret)
	if err != nil {
		log.Printf("❌ Error creating secrets verifier: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := sv.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if err := sv.Ensure(); err != nil {
		log.Printf("❌ Error verifying signature: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		log.Printf("❌ Error parsing event: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if eventsAPIEvent.Type == slackevents.URLVerification {
		var challenge *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text")
		w.Write([]byte(challenge.Challenge))
		return
	}

	if eventsAPIEvent.Type == slackevents.CallbackEvent {
		if ev, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.MessageEvent); ok {
			if err := b.captureMessage(context.Background(), ev); err != nil {
				log.Printf("❌ Error capturing message: %v", err)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

// captureMessage turns an ordinary channel message into a note.
func (b *Bridge) captureMessage(ctx context.Context, event *slackevents.MessageEvent) error {
	if event.BotID != "" || event.User == b.botID {
		return nil
	}
	if event.SubType != "" {
		return nil
	}
	if strings.TrimSpace(event.Text) == "" {
		return nil
	}
	// Thread replies are conversation, not capture.
	if event.ThreadTimeStamp != "" && event.ThreadTimeStamp != event.TimeStamp {
		return nil
	}

	result, err := b.coordinator.CreateNote(ctx, b.ownerID, event.Text)
	if err != nil {
		if errors.Is(err, ai.ErrRateLimited) {
			return b.sendMessage(event.Channel, "⏳ The AI gateway is rate limited right now. Try again in a bit.")
		}
		b.sendMessage(event.Channel, "❌ Couldn't save that note. Please try again.")
		return err
	}

	confirmation := fmt.Sprintf("Got it! Tags: %s", strings.Join(result.Note.Tags, ", "))
	if result.TasksCreated > 0 {
		confirmation += fmt.Sprintf(" | %d task(s) extracted", result.TasksCreated)
	}

	return b.sendMessage(event.Channel, confirmation)
}

func (b *Bridge) sendMessage(channelID, message string) error {
	_, _, err := b.api.PostMessage(channelID, slack.MsgOptionText(message, false))
	return err
}
