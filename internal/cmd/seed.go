package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/promptdeck/promptdeck/internal/domain"
	"github.com/promptdeck/promptdeck/internal/repository"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

type demoUser struct {
	email     string
	password  string
	firstName string
	lastName  string
}

// demoUsers returns the demo account definitions. Emails carry a random
// suffix so reruns do not collide with accounts from earlier runs.
func demoUsers() []demoUser {
	nonce := uuid.NewString()[0:8]
	users := make([]demoUser, 3)
	for i := range users {
		users[i] = demoUser{
			email:     fmt.Sprintf("demo-user%d+%s@example.com", i+1, nonce),
			password:  "testPassword123!",
			firstName: "Demo",
			lastName:  fmt.Sprintf("User%d", i+1),
		}
	}
	return users
}

var basePrompts = []domain.Prompt{
	{Name: "Code Explainer", Description: "Explains code in simple terms", Content: "Please explain this code in simple terms, as if you're teaching a beginner programmer:"},
	{Name: "Bug Finder", Description: "Helps identify bugs in code", Content: "Review this code and identify potential bugs, performance issues, or security vulnerabilities:"},
	{Name: "Feature Planner", Description: "Helps plan new features", Content: "Help me plan the implementation of this feature. Consider edge cases, potential challenges, and best practices:"},
	{Name: "SQL Query Helper", Description: "Assists with SQL queries", Content: "Help me write an efficient SQL query to accomplish the following task:"},
	{Name: "API Documentation", Description: "Generates API documentation", Content: "Generate clear and comprehensive documentation for this API endpoint, including parameters, responses, and examples:"},
	{Name: "Code Refactorer", Description: "Suggests code improvements", Content: "Review this code and suggest improvements for better readability, maintainability, and performance:"},
	{Name: "Test Case Generator", Description: "Creates test cases", Content: "Generate comprehensive test cases for this function, including edge cases and error scenarios:"},
	{Name: "UI/UX Reviewer", Description: "Reviews UI/UX design", Content: "Review this UI design and provide feedback on usability, accessibility, and user experience:"},
	{Name: "Git Command Helper", Description: "Helps with Git commands", Content: "What Git commands should I use to accomplish the following task:"},
}

// assignOwners distributes the templates round-robin across the given user
// ids, so uneven counts spread the remainder instead of dropping templates.
func assignOwners(templates []domain.Prompt, userIds []string) []domain.Prompt {
	prompts := make([]domain.Prompt, 0, len(templates))
	for i, template := range templates {
		template.UserID = userIds[i%len(userIds)]
		prompts = append(prompts, template)
	}
	return prompts
}

// SeedCmd creates demo accounts, clears the prompts table and repopulates it
// with the base templates. It is not idempotent: every run removes all
// existing prompt rows and creates fresh accounts.
func SeedCmd(ctx context.Context) error {
	godotenv.Load()
	logger := newLogger("seed")

	credentialsJson := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_CONTENT")
	if credentialsJson == "" {
		return errors.New("GOOGLE_APPLICATION_CREDENTIALS_CONTENT is not set")
	}
	opt := option.WithCredentialsJSON([]byte(credentialsJson))
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return fmt.Errorf("error initializing app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return fmt.Errorf("error getting auth client: %w", err)
	}

	pool, err := newDatabasePool(ctx, 4)
	if err != nil {
		return fmt.Errorf("error creating db pool: %w", err)
	}
	defer pool.Close()
	promptRepo := repository.NewPostgresPrompt(pool)

	users := demoUsers()
	// TODO: delete demo accounts left over from earlier runs
	// (authClient.Users iterator + DeleteUser) so the user pool stays bounded.
	logger.Info("creating demo users", "count", len(users))
	createdUsers := make([]*auth.UserRecord, len(users))
	g, gctx := errgroup.WithContext(ctx)
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			params := (&auth.UserToCreate{}).
				Email(user.email).
				Password(user.password).
				DisplayName(user.firstName + " " + user.lastName)
			created, err := authClient.CreateUser(gctx, params)
			if err != nil {
				return fmt.Errorf("failed to create user %v: %w", user.email, err)
			}
			createdUsers[i] = created
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("failed to create demo users", "error", err)
		return err
	}
	userIds := lo.Map(createdUsers, func(u *auth.UserRecord, _ int) string { return u.UID })
	logger.Info("created demo users", "userIds", userIds)
	if len(userIds) == 0 {
		return errors.New("no demo users were created, cannot seed prompts")
	}

	prompts := assignOwners(basePrompts, userIds)

	logger.Info("clearing prompts table")
	if err := promptRepo.DeleteAll(ctx); err != nil {
		logger.Error("failed to clear prompts table", "error", err)
		return fmt.Errorf("failed to clear prompts table: %w", err)
	}

	logger.Info("inserting seed prompts", "count", len(prompts))
	if err := promptRepo.CreateBatch(ctx, prompts); err != nil {
		logger.Error("failed to insert seed prompts", "error", err)
		return fmt.Errorf("failed to insert seed prompts: %w", err)
	}

	logger.Info("seeding completed")
	return nil
}
