// Command seed fills a development database with a few users, a
// conversation between the first two and a shared file. Rerunning it
// adds nothing once the conversation has history.
//
// SEED_PASSWORD overrides the password given to every seeded user.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"DuoChat/models"
	"DuoChat/pkg/apperr"
	"DuoChat/pkg/config"
	"DuoChat/pkg/database"
	"DuoChat/pkg/services"
)

type seedSummary struct {
	Users          []models.PublicUser `json:"users"`
	ConversationID uint                `json:"conversation_id"`
	FileID         uint                `json:"file_id"`
	Messages       int                 `json:"messages"`
}

func main() {
	if err := config.Load(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if config.IsProduction {
		fmt.Println("error: refusing to seed a production database")
		os.Exit(1)
	}

	summary, err := run(context.Background())
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))
}

func run(ctx context.Context) (*seedSummary, error) {
	db, err := database.Open(config.DBDriver, config.DSN())
	if err != nil {
		return nil, err
	}
	defer database.Close(db)

	store, err := services.NewDiskStorage(config.UploadDir)
	if err != nil {
		return nil, err
	}
	core := services.NewCore(db, services.Options{
		Tokens:    services.NewTokenIssuer(config.JWTSecret, services.DefaultTokenTTL),
		Artifacts: store,
	})

	password := strings.TrimSpace(os.Getenv("SEED_PASSWORD"))
	if password == "" {
		password = "password123"
	}

	summary := &seedSummary{}
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := ensureUser(ctx, core, name, password)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", name, err)
		}
		summary.Users = append(summary.Users, *u)
	}
	alice, bob := summary.Users[0], summary.Users[1]

	conv, err := core.Conversations.CreateOrGet(ctx, alice.ID, bob.ID)
	if err != nil {
		return nil, fmt.Errorf("conversation: %w", err)
	}
	summary.ConversationID = conv.ID

	// History means an earlier run already got this far.
	seen, err := core.Messages.ListForConversation(ctx, conv.ID, 1, 0)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if len(seen) > 0 {
		summary.FileID = existingFile(seen[0])
		return summary, nil
	}

	const name = "welcome.txt"
	locator, size, err := store.Save(alice.ID, name, strings.NewReader("Hello from DuoChat.\n"))
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}
	file, err := core.Files.RecordUpload(ctx, services.UploadInput{
		OwnerID:   alice.ID,
		Name:      name,
		Locator:   locator,
		SizeBytes: size,
		MediaType: store.MediaType(locator, ""),
	})
	if err != nil {
		_ = store.Remove(locator)
		return nil, fmt.Errorf("record file: %w", err)
	}
	summary.FileID = file.ID

	msgs := []services.SendMessageInput{
		{ConversationID: conv.ID, SenderID: alice.ID, Content: "Hi Bob!"},
		{ConversationID: conv.ID, SenderID: bob.ID, Content: "Hey Alice, what's up?"},
		{ConversationID: conv.ID, SenderID: alice.ID, Content: "Here is the welcome note.", Kind: models.MessageFile, FileID: &file.ID},
	}
	for _, m := range msgs {
		if _, err := core.Messages.Append(ctx, m); err != nil {
			return nil, fmt.Errorf("message: %w", err)
		}
		summary.Messages++
	}
	return summary, nil
}

func existingFile(latest models.Message) uint {
	if latest.FileID == nil {
		return 0
	}
	return *latest.FileID
}

// ensureUser registers name, or logs in if it was seeded before.
func ensureUser(ctx context.Context, core *services.Core, name, password string) (*models.PublicUser, error) {
	email := name + "@example.com"
	res, err := core.Auth.Register(ctx, services.RegisterInput{Email: email, Username: name, Password: password})
	if apperr.Is(err, apperr.DuplicateEmail) {
		res, err = core.Auth.Login(ctx, services.LoginInput{Email: email, Password: password})
	}
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}
